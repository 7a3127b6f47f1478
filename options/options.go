package options

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Window describes one window to create.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
}

type Options struct {
	Host Window `yaml:"host"`
	// Presentation is nil in single-window mode.
	Presentation *Window    `yaml:"presentation"`
	ClearColor   [4]float32 `yaml:"clear_color"`
	SwapInterval int        `yaml:"swap_interval"`
}

// Default returns the built-in configuration: two 1280x720 windows side by side.
func Default() *Options {
	return &Options{
		Host:         Window{Title: "Host", Width: 1280, Height: 720, X: 100, Y: 100},
		Presentation: &Window{Title: "Presentation", Width: 1280, Height: 720, X: 1400, Y: 100},
		ClearColor:   [4]float32{0.1, 0.1, 0.12, 1},
		SwapInterval: 1,
	}
}

// Load reads a YAML file over the defaults. "presentation: null" selects
// single-window mode.
func Load(path string) (*Options, error) {
	o := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return o, nil
}

// Parse builds options from command-line arguments. Values from -config are
// applied first; flags given explicitly override them.
func Parse(args []string) (*Options, error) {
	fs := flag.NewFlagSet("gosharedview", flag.ContinueOnError)
	var configFile = fs.String("config", "", "Path to a YAML configuration file")
	var width = fs.Int("width", 1280, "Width of the host window")
	var height = fs.Int("height", 720, "Height of the host window")
	var presentation = fs.Bool("presentation", true, "Open the presentation window")
	var pwidth = fs.Int("pwidth", 1280, "Width of the presentation window")
	var pheight = fs.Int("pheight", 720, "Height of the presentation window")
	var swap = fs.Int("swap", 1, "Swap interval (0 disables vsync)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	o := Default()
	if *configFile != "" {
		var err error
		if o, err = Load(*configFile); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			o.Host.Width = *width
		case "height":
			o.Host.Height = *height
		case "presentation":
			if !*presentation {
				o.Presentation = nil
			} else if o.Presentation == nil {
				o.Presentation = Default().Presentation
			}
		case "pwidth":
			if o.Presentation != nil {
				o.Presentation.Width = *pwidth
			}
		case "pheight":
			if o.Presentation != nil {
				o.Presentation.Height = *pheight
			}
		case "swap":
			o.SwapInterval = *swap
		}
	})

	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (w Window) validate(name string) error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%s window size must be positive, got %dx%d", name, w.Width, w.Height)
	}
	return nil
}

// Validate checks window sizes and the clear color.
func (o *Options) Validate() error {
	var errs []error
	errs = append(errs, o.Host.validate("host"))
	if o.Presentation != nil {
		errs = append(errs, o.Presentation.validate("presentation"))
	}
	for i, c := range o.ClearColor {
		if c < 0 || c > 1 {
			errs = append(errs, fmt.Errorf("clear_color[%d] = %v outside [0, 1]", i, c))
		}
	}
	if o.SwapInterval < 0 {
		errs = append(errs, fmt.Errorf("swap interval must not be negative, got %d", o.SwapInterval))
	}
	return errors.Join(errs...)
}
