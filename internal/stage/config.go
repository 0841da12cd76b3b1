package stage

import (
	"strconv"
	"strings"

	"carousel/internal/dom"
)

// Host element attributes read once at initialization
const (
	AttrAutoscroll = "data-stage-autoscroll"
	AttrMode       = "data-stage-mode"
	AttrAutostart  = "data-stage-autostart"
	AttrItem       = "data-stage-item"
)

// WrapPolicy decides what happens when moving past either end
type WrapPolicy string

const (
	// Wrap cycles to the opposite end
	Wrap WrapPolicy = "wrap"
	// Clamp holds at the boundary
	Clamp WrapPolicy = "clamp"
)

// ParseWrapPolicy maps a mode attribute to a policy. "roundrobin" is accepted as an
// alias of wrap and "default" of clamp; anything unrecognized is treated as clamp.
func ParseWrapPolicy(s string) WrapPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wrap", "roundrobin":
		return Wrap
	default:
		return Clamp
	}
}

// Config is the stage behaviour configured on the host element
type Config struct {
	Mode       WrapPolicy
	Autoscroll bool
	Autostart  bool
}

// DefaultConfig returns wrap mode, no autoscroll, autostart enabled
func DefaultConfig() Config {
	return Config{
		Mode:       Wrap,
		Autoscroll: false,
		Autostart:  true,
	}
}

// ParseConfig reads the data-stage-* attributes of host over the defaults
func ParseConfig(host *dom.Element) Config {
	cfg := DefaultConfig()
	if host == nil {
		return cfg
	}
	if v, ok := host.Attribute(AttrAutoscroll); ok {
		cfg.Autoscroll = v == "true"
	}
	if v, ok := host.Attribute(AttrMode); ok {
		cfg.Mode = ParseWrapPolicy(v)
	}
	if v, ok := host.Attribute(AttrAutostart); ok {
		cfg.Autostart = v != "false"
	}
	return cfg
}

// Attributes renders cfg as the host attributes ParseConfig reads back
func (cfg Config) Attributes() map[string]string {
	return map[string]string{
		AttrMode:       string(cfg.Mode),
		AttrAutoscroll: strconv.FormatBool(cfg.Autoscroll),
		AttrAutostart:  strconv.FormatBool(cfg.Autostart),
	}
}
