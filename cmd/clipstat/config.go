package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/taigrr/glclip/pkg/math3d"
	"github.com/taigrr/glclip/pkg/render"
)

// Defaults for a missing or partial scene file.
const (
	defaultWidth  = 640
	defaultHeight = 480
	defaultFOVDeg = 60
	defaultNear   = 0.5
	defaultFar    = 50
)

var errConfig = errors.New("invalid config")

type CameraCfg struct {
	Eye    [3]float64 `json:"eye"`
	Target [3]float64 `json:"target"`
	Up     [3]float64 `json:"up,omitempty"` // defaults to +Y
	FOVDeg float64    `json:"fovDeg,omitempty"`
	Near   float64    `json:"near,omitempty"`
	Far    float64    `json:"far,omitempty"`
}

// ModelCfg places the mesh in the world. Rotation is in degrees, applied
// X then Y then Z.
type ModelCfg struct {
	Scale     float64    `json:"scale,omitempty"` // defaults 1
	RotDeg    [3]float64 `json:"rotDeg"`
	Translate [3]float64 `json:"translate"`
}

// PlaneCfg is a user clip plane (a, b, c, d) in model space; points with
// a*x + b*y + c*z + d >= 0 are kept.
type PlaneCfg struct {
	Index    int        `json:"index"`
	Plane    [4]float64 `json:"plane"`
	Disabled bool       `json:"disabled,omitempty"`
}

// SweepCfg animates the offset of user plane 0 from From to To.
type SweepCfg struct {
	Normal    [3]float64 `json:"normal"`
	From      float64    `json:"from"`
	To        float64    `json:"to"`
	Frequency float64    `json:"frequency,omitempty"`
	Damping   float64    `json:"damping,omitempty"`
}

type Config struct {
	Width        int        `json:"width,omitempty"`
	Height       int        `json:"height,omitempty"`
	Camera       CameraCfg  `json:"camera"`
	Model        ModelCfg   `json:"model"`
	Planes       []PlaneCfg `json:"planes,omitempty"`
	Lighting     bool       `json:"lighting,omitempty"`
	TextureUnits []int      `json:"textureUnits,omitempty"`
	Sweep        SweepCfg   `json:"sweep"`
}

// DefaultConfig looks at the origin from a corner so a unit-sized model
// fills most of the view.
func DefaultConfig() *Config {
	cfg := &Config{
		Camera: CameraCfg{Eye: [3]float64{3, 2, 4}},
		Sweep:  SweepCfg{From: 2, To: -2},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a JSON scene file and fills in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.Camera.Up == ([3]float64{}) {
		c.Camera.Up = [3]float64{0, 1, 0}
	}
	if c.Camera.FOVDeg <= 0 {
		c.Camera.FOVDeg = defaultFOVDeg
	}
	if c.Camera.Near <= 0 {
		c.Camera.Near = defaultNear
	}
	if c.Camera.Far <= c.Camera.Near {
		c.Camera.Far = max(defaultFar, c.Camera.Near*2)
	}
	if c.Model.Scale == 0 {
		c.Model.Scale = 1
	}
	if c.Sweep.Normal == ([3]float64{}) {
		c.Sweep.Normal = [3]float64{1, 0, 0}
	}
	if c.Sweep.Frequency <= 0 {
		// Moderate speed, critically damped.
		c.Sweep.Frequency = 4
	}
	if c.Sweep.Damping <= 0 {
		c.Sweep.Damping = 1
	}
}

func (c *Config) validate() error {
	if c.Camera.Eye == c.Camera.Target {
		return fmt.Errorf("camera eye equals target: %w", errConfig)
	}
	if c.Camera.FOVDeg >= 180 {
		return fmt.Errorf("fovDeg %v not below 180: %w", c.Camera.FOVDeg, errConfig)
	}
	for _, p := range c.Planes {
		if p.Index < 0 || p.Index >= render.MaxUserPlanes {
			return fmt.Errorf("plane index %d: %w", p.Index, render.ErrPlaneIndex)
		}
	}
	for _, u := range c.TextureUnits {
		if u < 0 || u >= render.MaxTextureUnits {
			return fmt.Errorf("texture unit %d: %w", u, render.ErrTextureUnit)
		}
	}
	return nil
}

func v3(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

// NewTransform builds the projection and modelview the config describes.
func (c *Config) NewTransform() *render.Transform {
	t := render.NewTransform()
	aspect := float64(c.Width) / float64(c.Height)
	t.Perspective(c.Camera.FOVDeg*math.Pi/180, aspect, c.Camera.Near, c.Camera.Far)
	t.LookAt(v3(c.Camera.Eye), v3(c.Camera.Target), v3(c.Camera.Up))

	var model math3d.Mat4
	model.SetTranslate(c.Model.Translate[0], c.Model.Translate[1], c.Model.Translate[2])
	var r math3d.Mat4
	for axis, deg := range c.Model.RotDeg {
		if deg == 0 {
			continue
		}
		var a [3]float64
		a[axis] = 1
		r.SetRotate(deg, a[0], a[1], a[2])
		model = model.Mul(r)
	}
	var s math3d.Mat4
	s.SetScale(c.Model.Scale, c.Model.Scale, c.Model.Scale)
	t.MultModelView(model.Mul(s))
	return t
}

// NewContext builds the clip context, projecting planes through the
// transform's modelview.
func (c *Config) NewContext(t *render.Transform) (*render.ClipContext, error) {
	ctx := &render.ClipContext{Lighting: c.Lighting}
	for _, u := range c.TextureUnits {
		if err := ctx.EnableTextureUnit(u, true); err != nil {
			return nil, err
		}
	}
	for _, p := range c.Planes {
		plane := math3d.V4(p.Plane[0], p.Plane[1], p.Plane[2], p.Plane[3])
		if err := ctx.SetPlane(p.Index, plane, t.ModelView()); err != nil {
			return nil, err
		}
		if err := ctx.EnablePlane(p.Index, !p.Disabled); err != nil {
			return nil, err
		}
	}
	return ctx, nil
}
