package graph

import "github.com/pion/audiograph/pkg/effect"

var customEffects = effect.NewRegistry()

// RegisterCustomEffect makes custom effect id available to every Graph that was
// configured without its own registry. A nil factory unregisters id. It reports
// whether a factory was previously registered under id.
func RegisterCustomEffect(id int, f effect.Factory) bool {
	return customEffects.Register(id, f)
}
