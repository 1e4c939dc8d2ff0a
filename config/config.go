// Package config loads the user's TOML configuration: default link style,
// font, layout and the command used to open links.
package config

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/ByLCY/linklabel/layout"
	"github.com/ByLCY/linklabel/linkify"
	"github.com/ByLCY/linklabel/opener"
	"github.com/ByLCY/linklabel/style"
)

// DefaultPath is where the configuration lives unless -config says otherwise.
const DefaultPath = "~/.config/linklabel/config.toml"

// Config mirrors config.toml.
type Config struct {
	Link   LinkConfig           `toml:"link"`
	Font   style.FontDescriptor `toml:"font"`
	Layout LayoutConfig         `toml:"layout"`
	Opener OpenerConfig         `toml:"opener"`
}

// LinkConfig is the [link] table: link colour, underline and detection mode.
type LinkConfig struct {
	Color      string `toml:"color" comment:"hex (#rgb, #rrggbb, #rrggbbaa) or CSS colour name"`
	Underline  bool   `toml:"underline"`
	Mode       string `toml:"mode" comment:"relaxed | strict"`
	HoverColor string `toml:"hover_color" comment:"terminal preview only"`
}

// LayoutConfig is the [layout] table.
type LayoutConfig struct {
	Wrap     string `toml:"wrap" comment:"word | char | clip"`
	MaxLines int    `toml:"max_lines" comment:"0 means unlimited"`
}

// OpenerConfig is the [opener] table.
type OpenerConfig struct {
	Command []string `toml:"command" comment:"empty uses xdg-open, open or the url.dll handler; {url} is replaced by the link"`
}

// DefaultConfig returns blue underlined links in Go Regular 17pt.
func DefaultConfig() *Config {
	return &Config{
		Link: LinkConfig{
			Color:      "#0000ff",
			Underline:  true,
			Mode:       linkify.Relaxed.String(),
			HoverColor: "#ff8800",
		},
		Font:   style.SystemFont(style.DefaultFontSize),
		Layout: LayoutConfig{Wrap: layout.WrapWord.String()},
		Opener: OpenerConfig{Command: []string{}},
	}
}

// Path expands p, or DefaultPath when p is empty.
func Path(p string) (string, error) {
	if p == "" {
		p = DefaultPath
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", errors.Wrapf(err, "cannot expand config path %s", p)
	}
	return expanded, nil
}

// Load reads the configuration at path. A missing file yields the defaults;
// keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	full, err := Path(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "error while reading config")
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", full)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", full)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	full, err := Path(path)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "error while encoding config")
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrap(err, "error while creating config directory")
	}
	return errors.Wrap(os.WriteFile(full, data, 0o644), "error while writing config")
}

// Validate checks every value that needs parsing.
func (c *Config) Validate() error {
	if _, err := c.Style(); err != nil {
		return err
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	if _, err := c.HoverColor(); err != nil {
		return err
	}
	if _, err := layout.ParseWrapMode(c.Layout.Wrap); err != nil {
		return err
	}
	if c.Layout.MaxLines < 0 {
		return errors.New("layout.max_lines must not be negative")
	}
	return nil
}

// Style returns the link style. The configured font is the link font.
func (c *Config) Style() (style.Config, error) {
	col, err := style.ParseColor(c.Link.Color)
	if err != nil {
		return style.Config{}, errors.Wrap(err, "link.color")
	}
	font := c.Font.Resolved()
	return style.Config{Underline: c.Link.Underline, Color: col, Font: &font}, nil
}

// HoverColor returns the colour of a link under the mouse in the terminal
// preview. Empty falls back to the link colour.
func (c *Config) HoverColor() (style.Color, error) {
	v := c.Link.HoverColor
	if v == "" {
		v = c.Link.Color
	}
	col, err := style.ParseColor(v)
	return col, errors.Wrap(err, "link.hover_color")
}

// Mode returns the detection mode.
func (c *Config) Mode() (linkify.Mode, error) {
	m, err := linkify.ParseMode(c.Link.Mode)
	return m, errors.Wrap(err, "link.mode")
}

// Detector returns a detector for the configured mode.
func (c *Config) Detector() (linkify.Detector, error) {
	m, err := c.Mode()
	if err != nil {
		return nil, err
	}
	return linkify.NewDetector(m), nil
}

// Params returns layout parameters for a container of the given size.
func (c *Config) Params(size layout.Size) (layout.Params, error) {
	wrap, err := layout.ParseWrapMode(c.Layout.Wrap)
	if err != nil {
		return layout.Params{}, errors.Wrap(err, "layout.wrap")
	}
	p := layout.Params{Wrap: wrap, MaxLines: c.Layout.MaxLines, Size: size, Font: c.Font.Resolved()}
	return p, nil
}

// Defaults converts the configuration into layout build defaults.
func (c *Config) Defaults() (layout.Defaults, error) {
	st, err := c.Style()
	if err != nil {
		return layout.Defaults{}, err
	}
	mode, err := c.Mode()
	if err != nil {
		return layout.Defaults{}, err
	}
	p, err := c.Params(layout.Size{})
	if err != nil {
		return layout.Defaults{}, err
	}
	return layout.Defaults{Style: st, Font: p.Font, Wrap: p.Wrap, MaxLines: p.MaxLines, Mode: mode}, nil
}

// SystemOpener returns the system opener using the configured command.
func (c *Config) SystemOpener() opener.System {
	return opener.System{Command: c.Opener.Command}
}
