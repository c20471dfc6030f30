package backend

import "fmt"

// Op selects the attribute a Command mutates or a Query reads.
type Op uint16

// Global ops take a zero target.
const (
	OpNone Op = iota

	// Global commands.
	OpSuspend
	OpResume
	OpResetClipFlag
	OpSetVolumeRampTime // Float[0] milliseconds
	OpLock
	OpUnlock
	OpStartCapture // Str path
	OpStopCapture
	OpSetListenerPosition // Float[0:3] eye, Float[3:6] look-at, Float[6:9] up
	OpSetListenerVelocity // Float[0:3]
	OpSetAttenuation      // Int[0] mode, Float[0] near, Float[1] far, Float[2] far volume
	OpSetSpeedOfSound     // Float[0] units per second, 0 disables doppler

	// Global queries.
	OpMasterMixer
	OpGlobalBus
	OpFindMixer // Str name
	OpFindBank  // Str name
	OpSuspended
	OpRenderLoad
	OpClipFlag
	OpVolumeRampTime
	OpCapturing
	OpListenerPosition
	OpListenerVelocity
	OpAttenuation
	OpSpeedOfSound

	// Mixer commands.
	OpMixerSetName
	OpMixerSetVolume
	OpMixerSetPaused
	OpMixerSetParent // Ref parent, handle.Nil for master

	// Mixer queries.
	OpMixerName
	OpMixerVolume
	OpMixerMixedVolume
	OpMixerPaused
	OpMixerMixedPause
	OpMixerParent

	// Effect bus commands.
	OpBusAddEffect
	OpBusRemoveEffect
	OpBusRemoveAllEffects
	OpBusSetOutput // Ref output, handle.Nil for the final output
	OpBusReset
	OpBusSetBypassed
	OpBusSetWetDry

	// Effect bus queries.
	OpBusEffects
	OpBusOutput
	OpBusInputs
	OpBusBypassed
	OpBusWetDry

	// Effect commands.
	OpEffectSetParam // Int[0] param id, Float[0] value
	OpEffectReset
	OpEffectSetBypassed
	OpEffectSetWetDry

	// Effect queries.
	OpEffectType  // Int[0] kind, Int[1] custom id
	OpEffectParam // Query.Int param id
	OpEffectBypassed
	OpEffectWetDry
	OpEffectBus

	// Sound commands.
	OpSoundPlay
	OpSoundStop
	OpSoundSetPaused
	OpSoundSetLoop      // Int[0] start, Int[1] end (-1 = to the end)
	OpSoundSetLoopCount // Int[0], -1 infinite
	OpSoundReleaseLoop
	OpSoundSetPlayPosition // Int[0] frames
	OpSoundSetVolume
	OpSoundSetPan
	OpSoundSetPanMatrix // Float[0:4] LL, LR, RL, RR
	OpSoundSetSpeed
	OpSoundSetNext
	OpSoundSetMixer // Ref mixer, handle.Nil for master
	OpSoundSetEffectBus
	OpSoundSet3dEnabled
	OpSoundSet3dPosition // Float[0:3]
	OpSoundSet3dVelocity // Float[0:3]

	// Sound queries.
	OpSoundReady
	OpSoundFailed
	OpSoundPlaying
	OpSoundPaused
	OpSoundMixedPause
	OpSoundLoop
	OpSoundLoopCount
	OpSoundCurrentLoop
	OpSoundLoopReleased
	OpSoundPlayPosition
	OpSoundVolume
	OpSoundMixedVolume
	OpSoundPan
	OpSoundPanMatrix
	OpSoundSpeed
	OpSoundNext
	OpSoundLength
	OpSoundSampleRate
	OpSoundChannels
	OpSoundMixer
	OpSoundEffectBus
	OpSound3dEnabled
	OpSoundVirtual
	OpSound3dPosition
	OpSound3dVelocity

	// Bank queries.
	OpBankLoaded
	OpBankFailed
	OpBankName
	OpBankSoundCount
	OpBankSoundName // Query.Int index

	opCount
)

type opInfo struct {
	name  string
	kind  Kind // 0 for global ops
	query bool
}

var ops = [opCount]opInfo{
	OpSuspend:             {"suspend", 0, false},
	OpResume:              {"resume", 0, false},
	OpResetClipFlag:       {"reset-clip-flag", 0, false},
	OpSetVolumeRampTime:   {"set-volume-ramp-time", 0, false},
	OpLock:                {"lock", 0, false},
	OpUnlock:              {"unlock", 0, false},
	OpStartCapture:        {"start-capture", 0, false},
	OpStopCapture:         {"stop-capture", 0, false},
	OpSetListenerPosition: {"set-listener-position", 0, false},
	OpSetListenerVelocity: {"set-listener-velocity", 0, false},
	OpSetAttenuation:      {"set-attenuation", 0, false},
	OpSetSpeedOfSound:     {"set-speed-of-sound", 0, false},

	OpMasterMixer:      {"master-mixer", 0, true},
	OpGlobalBus:        {"global-bus", 0, true},
	OpFindMixer:        {"find-mixer", 0, true},
	OpFindBank:         {"find-bank", 0, true},
	OpSuspended:        {"suspended", 0, true},
	OpRenderLoad:       {"render-load", 0, true},
	OpClipFlag:         {"clip-flag", 0, true},
	OpVolumeRampTime:   {"volume-ramp-time", 0, true},
	OpCapturing:        {"capturing", 0, true},
	OpListenerPosition: {"listener-position", 0, true},
	OpListenerVelocity: {"listener-velocity", 0, true},
	OpAttenuation:      {"attenuation", 0, true},
	OpSpeedOfSound:     {"speed-of-sound", 0, true},

	OpMixerSetName:     {"mixer-set-name", KindMixer, false},
	OpMixerSetVolume:   {"mixer-set-volume", KindMixer, false},
	OpMixerSetPaused:   {"mixer-set-paused", KindMixer, false},
	OpMixerSetParent:   {"mixer-set-parent", KindMixer, false},
	OpMixerName:        {"mixer-name", KindMixer, true},
	OpMixerVolume:      {"mixer-volume", KindMixer, true},
	OpMixerMixedVolume: {"mixer-mixed-volume", KindMixer, true},
	OpMixerPaused:      {"mixer-paused", KindMixer, true},
	OpMixerMixedPause:  {"mixer-mixed-pause", KindMixer, true},
	OpMixerParent:      {"mixer-parent", KindMixer, true},

	OpBusAddEffect:        {"bus-add-effect", KindEffectBus, false},
	OpBusRemoveEffect:     {"bus-remove-effect", KindEffectBus, false},
	OpBusRemoveAllEffects: {"bus-remove-all-effects", KindEffectBus, false},
	OpBusSetOutput:        {"bus-set-output", KindEffectBus, false},
	OpBusReset:            {"bus-reset", KindEffectBus, false},
	OpBusSetBypassed:      {"bus-set-bypassed", KindEffectBus, false},
	OpBusSetWetDry:        {"bus-set-wet-dry", KindEffectBus, false},
	OpBusEffects:          {"bus-effects", KindEffectBus, true},
	OpBusOutput:           {"bus-output", KindEffectBus, true},
	OpBusInputs:           {"bus-inputs", KindEffectBus, true},
	OpBusBypassed:         {"bus-bypassed", KindEffectBus, true},
	OpBusWetDry:           {"bus-wet-dry", KindEffectBus, true},

	OpEffectSetParam:    {"effect-set-param", KindEffect, false},
	OpEffectReset:       {"effect-reset", KindEffect, false},
	OpEffectSetBypassed: {"effect-set-bypassed", KindEffect, false},
	OpEffectSetWetDry:   {"effect-set-wet-dry", KindEffect, false},
	OpEffectType:        {"effect-type", KindEffect, true},
	OpEffectParam:       {"effect-param", KindEffect, true},
	OpEffectBypassed:    {"effect-bypassed", KindEffect, true},
	OpEffectWetDry:      {"effect-wet-dry", KindEffect, true},
	OpEffectBus:         {"effect-bus", KindEffect, true},

	OpSoundPlay:            {"sound-play", KindSound, false},
	OpSoundStop:            {"sound-stop", KindSound, false},
	OpSoundSetPaused:       {"sound-set-paused", KindSound, false},
	OpSoundSetLoop:         {"sound-set-loop", KindSound, false},
	OpSoundSetLoopCount:    {"sound-set-loop-count", KindSound, false},
	OpSoundReleaseLoop:     {"sound-release-loop", KindSound, false},
	OpSoundSetPlayPosition: {"sound-set-play-position", KindSound, false},
	OpSoundSetVolume:       {"sound-set-volume", KindSound, false},
	OpSoundSetPan:          {"sound-set-pan", KindSound, false},
	OpSoundSetPanMatrix:    {"sound-set-pan-matrix", KindSound, false},
	OpSoundSetSpeed:        {"sound-set-speed", KindSound, false},
	OpSoundSetNext:         {"sound-set-next", KindSound, false},
	OpSoundSetMixer:        {"sound-set-mixer", KindSound, false},
	OpSoundSetEffectBus:    {"sound-set-effect-bus", KindSound, false},
	OpSoundSet3dEnabled:    {"sound-set-3d-enabled", KindSound, false},
	OpSoundSet3dPosition:   {"sound-set-3d-position", KindSound, false},
	OpSoundSet3dVelocity:   {"sound-set-3d-velocity", KindSound, false},
	OpSoundReady:           {"sound-ready", KindSound, true},
	OpSoundFailed:          {"sound-failed", KindSound, true},
	OpSoundPlaying:         {"sound-playing", KindSound, true},
	OpSoundPaused:          {"sound-paused", KindSound, true},
	OpSoundMixedPause:      {"sound-mixed-pause", KindSound, true},
	OpSoundLoop:            {"sound-loop", KindSound, true},
	OpSoundLoopCount:       {"sound-loop-count", KindSound, true},
	OpSoundCurrentLoop:     {"sound-current-loop", KindSound, true},
	OpSoundLoopReleased:    {"sound-loop-released", KindSound, true},
	OpSoundPlayPosition:    {"sound-play-position", KindSound, true},
	OpSoundVolume:          {"sound-volume", KindSound, true},
	OpSoundMixedVolume:     {"sound-mixed-volume", KindSound, true},
	OpSoundPan:             {"sound-pan", KindSound, true},
	OpSoundPanMatrix:       {"sound-pan-matrix", KindSound, true},
	OpSoundSpeed:           {"sound-speed", KindSound, true},
	OpSoundNext:            {"sound-next", KindSound, true},
	OpSoundLength:          {"sound-length", KindSound, true},
	OpSoundSampleRate:      {"sound-sample-rate", KindSound, true},
	OpSoundChannels:        {"sound-channels", KindSound, true},
	OpSoundMixer:           {"sound-mixer", KindSound, true},
	OpSoundEffectBus:       {"sound-effect-bus", KindSound, true},
	OpSound3dEnabled:       {"sound-3d-enabled", KindSound, true},
	OpSoundVirtual:         {"sound-virtual", KindSound, true},
	OpSound3dPosition:      {"sound-3d-position", KindSound, true},
	OpSound3dVelocity:      {"sound-3d-velocity", KindSound, true},

	OpBankLoaded:     {"bank-loaded", KindBank, true},
	OpBankFailed:     {"bank-failed", KindBank, true},
	OpBankName:       {"bank-name", KindBank, true},
	OpBankSoundCount: {"bank-sound-count", KindBank, true},
	OpBankSoundName:  {"bank-sound-name", KindBank, true},
}

func (o Op) info() (opInfo, bool) {
	if o <= OpNone || o >= opCount {
		return opInfo{}, false
	}
	return ops[o], true
}

// Valid reports whether o is a known op.
func (o Op) Valid() bool {
	_, ok := o.info()
	return ok
}

// Kind returns the entity kind o targets, or 0 for global ops.
func (o Op) Kind() Kind {
	info, _ := o.info()
	return info.kind
}

// Global reports whether o takes a zero target.
func (o Op) Global() bool {
	info, ok := o.info()
	return ok && info.kind == 0
}

// IsQuery reports whether o is read through Backend.Query rather than Backend.Exec.
func (o Op) IsQuery() bool {
	info, _ := o.info()
	return info.query
}

func (o Op) String() string {
	info, ok := o.info()
	if !ok {
		return fmt.Sprintf("op(%d)", uint16(o))
	}
	return info.name
}
