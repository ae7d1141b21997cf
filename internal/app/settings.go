package app

import (
	"github.com/dshills/surface/internal/config"
	"github.com/dshills/surface/internal/element"
	"github.com/dshills/surface/internal/input/mouse"
	"github.com/dshills/surface/internal/pacer"
	"github.com/dshills/surface/internal/renderer/core"
)

// colorable elements can be recolored by a config reload.
type colorable interface {
	SetColor(c core.Color)
	SetHighlight(c core.Color)
}

// ElementsFromConfig builds one draggable rectangle per configured element.
func ElementsFromConfig(cfg *config.Config) (element.List, error) {
	list := make(element.List, 0, len(cfg.Elements))
	for i, ec := range cfg.Elements {
		fill, highlight, err := ec.Colors()
		if err != nil {
			return nil, WrapError(err, "element %d", i)
		}
		r := element.NewRectangle(ec.Rect().Origin, ec.Rect().Size, fill)
		r.SetHighlight(highlight)
		list = append(list, r)
	}
	return list, nil
}

// OptionsFromConfig returns UI options for cfg. Logger, metrics and reload
// channels are left for the caller.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	target, err := cfg.FrameTarget()
	if err != nil {
		return Options{}, NewComponentError("config", "frame target", err)
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return Options{}, NewComponentError("config", "background", err)
	}
	return Options{
		HoldFrames: mouse.Frame(cfg.Input.HoldFrames),
		Pacer:      pacer.New(pacer.WithTarget(target), pacer.WithMargin(cfg.FrameMargin())),
		Background: bg,
	}, nil
}

// ApplyConfig updates the running UI from cfg: log level, frame pacing,
// hold threshold, background and element colors. Element positions and the
// element count are not changed.
func (ui *UI) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return NewComponentError("config", "apply", err)
	}

	ui.logger.SetLevel(ParseLogLevel(cfg.Log.Level))

	target, _ := cfg.FrameTarget()
	ui.pacer.SetTarget(target, cfg.FrameMargin())
	ui.machine.SetHoldFrames(mouse.Frame(cfg.Input.HoldFrames))

	bg, _ := cfg.BackgroundColor()
	ui.bitmap.SetBackground(bg)

	n := min(len(cfg.Elements), len(ui.elements))
	for i := range n {
		c, ok := ui.elements[i].(colorable)
		if !ok {
			continue
		}
		fill, highlight, _ := cfg.Elements[i].Colors()
		c.SetColor(fill)
		c.SetHighlight(highlight)
	}
	if len(cfg.Elements) != len(ui.elements) {
		ui.logger.Warn("config has %d elements, running with %d; restart to change layout",
			len(cfg.Elements), len(ui.elements))
	}

	ui.logger.WithFields(map[string]any{
		"fps":         cfg.Frame.FPS,
		"hold_frames": cfg.Input.HoldFrames,
		"log_level":   cfg.Log.Level,
	}).Info("config applied")
	return nil
}

// applyPending applies config updates that arrived since the last frame.
func (ui *UI) applyPending() {
	for {
		select {
		case cfg, ok := <-ui.reloads:
			if !ok {
				ui.reloads = nil
				continue
			}
			if err := ui.ApplyConfig(cfg); err != nil {
				ui.logger.Warn("config reload rejected: %v", err)
			}
		case err, ok := <-ui.reloadErrs:
			if !ok {
				ui.reloadErrs = nil
				continue
			}
			ui.logger.Warn("config reload failed: %v", err)
		default:
			return
		}
	}
}
