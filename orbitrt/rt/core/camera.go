package core

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ViewMode selects the active camera variant.
type ViewMode uint32

const (
	ViewHorizon ViewMode = iota
	ViewFreeOrbit
	ViewFirstPerson
	ViewGround
	ViewModeCount
)

func (m ViewMode) String() string {
	switch m {
	case ViewHorizon:
		return "horizon"
	case ViewFreeOrbit:
		return "orbit"
	case ViewFirstPerson:
		return "first-person"
	case ViewGround:
		return "ground"
	}
	return "unknown"
}

// ParseViewMode accepts the names printed by ViewMode.String.
func ParseViewMode(s string) (ViewMode, error) {
	for m := ViewHorizon; m < ViewModeCount; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown view mode %q", s)
}

// CameraState is what one frame renders from. World units are kilometers, Z is north.
type CameraState struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	Up          mgl32.Vec3
	FieldOfView float32 // vertical, radians
	Near        float32
	Far         float32
}

func (c CameraState) Forward() mgl32.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

func (c CameraState) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns a perspective projection with clip depth in [0, 1].
func (c CameraState) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return depthRemap.Mul4(mgl32.Perspective(c.FieldOfView, aspect, c.Near, c.Far))
}

// depthRemap maps GL clip depth [-w, w] to [0, w].
var depthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// BodyTracker answers position/velocity queries with the propagation kernel's formula.
type BodyTracker interface {
	BodyState(i int, t float32) (pos, vel mgl32.Vec3, ok bool)
}

// AngularState is the persistent input-driven state shared by every view mode.
type AngularState struct {
	Yaw      float32 // degrees, [0, 360)
	Pitch    float32 // degrees, clamped to +-MaxPitch
	Distance float32 // free orbit radius, km
}

const MaxPitch = 89.0

// lookAhead keeps surface and body-relative targets far enough from the eye that
// target-eye keeps float32 precision at planetary coordinates.
const lookAhead = 1000

// ControllerConfig holds the tunables of the camera state machine.
type ControllerConfig struct {
	BodyRadius      float32
	HorizonAltitude float32
	GroundEyeHeight float32
	GroundLatitude  float32 // degrees
	FieldOfView     float32 // degrees
	Sensitivity     float32 // degrees per pixel of drag
	ZoomStep        float32 // fractional distance change per scroll unit
	MinDistance     float32
	MaxDistance     float32
	InitialDistance float32
	InitialPitch    float32
	MoveSpeed       float32 // km/s of first-person offset while a key is held
	BoostFactor     float32
	Damping         float32 // 1/s
	MaxOffset       float32
	Near            [ViewModeCount]float32
	Far             [ViewModeCount]float32 // free orbit adds the current distance
}

func DefaultControllerConfig(bodyRadius float32) ControllerConfig {
	return ControllerConfig{
		BodyRadius:      bodyRadius,
		HorizonAltitude: 400,
		GroundEyeHeight: 0.002,
		GroundLatitude:  28.5,
		FieldOfView:     60,
		Sensitivity:     0.2,
		ZoomStep:        0.1,
		MinDistance:     bodyRadius * 1.05,
		MaxDistance:     bodyRadius * 40,
		InitialDistance: bodyRadius * 4,
		InitialPitch:    20,
		MoveSpeed:       2,
		BoostFactor:     5,
		Damping:         3,
		MaxOffset:       5,
		Near:            [ViewModeCount]float32{1, 1, 0.01, 0.05},
		Far:             [ViewModeCount]float32{40000, 20000, 40000, 20000},
	}
}

// Controller is the camera state machine. All mutation happens through the InputSink methods,
// SetMode and Update; Camera is a pure read.
type Controller struct {
	cfg     ControllerConfig
	mode    ViewMode
	angles  AngularState
	tracked int

	dragging     bool
	lastX, lastY float64

	held   [keyCount]bool
	offset mgl32.Vec3 // first-person local offset (right, up, forward)
}

func NewController(cfg ControllerConfig, mode ViewMode) *Controller {
	c := &Controller{
		cfg:  cfg,
		mode: mode,
		angles: AngularState{
			Pitch:    cfg.InitialPitch,
			Distance: cfg.InitialDistance,
		},
	}
	c.angles = c.clampAngles(c.angles)
	return c
}

func (c *Controller) Mode() ViewMode       { return c.mode }
func (c *Controller) Angles() AngularState { return c.angles }
func (c *Controller) Offset() mgl32.Vec3   { return c.offset }
func (c *Controller) Tracked() int         { return c.tracked }

// SetMode switches the active variant. Entering any mode clears the first-person offset.
func (c *Controller) SetMode(m ViewMode) {
	if m >= ViewModeCount {
		return
	}
	c.mode = m
	c.offset = mgl32.Vec3{}
}

// SetTracked selects the body followed in first-person mode.
func (c *Controller) SetTracked(i int) {
	if i >= 0 {
		c.tracked = i
	}
}

// StepTracked moves the tracked body by delta, wrapping within n bodies.
func (c *Controller) StepTracked(delta, n int) {
	if n <= 0 {
		return
	}
	c.tracked = ((c.tracked+delta)%n + n) % n
	c.offset = mgl32.Vec3{}
}

func (c *Controller) PointerDown(x, y float64) {
	c.dragging = true
	c.lastX, c.lastY = x, y
}

func (c *Controller) PointerUp(x, y float64) {
	c.dragging = false
}

func (c *Controller) PointerMove(x, y float64) {
	if !c.dragging {
		return
	}
	dx := float32(x - c.lastX)
	dy := float32(y - c.lastY)
	c.lastX, c.lastY = x, y

	a := c.angles
	a.Yaw += dx * c.cfg.Sensitivity
	a.Pitch -= dy * c.cfg.Sensitivity
	c.angles = c.clampAngles(a)
}

func (c *Controller) Scroll(dy float64) {
	a := c.angles
	a.Distance *= math32.Exp(-float32(dy) * c.cfg.ZoomStep)
	c.angles = c.clampAngles(a)
}

func (c *Controller) KeyDown(k Key) {
	if k > KeyUnknown && k < keyCount {
		c.held[k] = true
	}
}

func (c *Controller) KeyUp(k Key) {
	if k > KeyUnknown && k < keyCount {
		c.held[k] = false
	}
}

func (c *Controller) clampAngles(a AngularState) AngularState {
	a.Yaw -= 360 * math32.Floor(a.Yaw/360)
	a.Pitch = mgl32.Clamp(a.Pitch, -MaxPitch, MaxPitch)
	a.Distance = mgl32.Clamp(a.Distance, c.cfg.MinDistance, c.cfg.MaxDistance)
	return a
}

// Update integrates the first-person offset. Held keys push it, damping pulls it back to zero.
func (c *Controller) Update(dt float32) {
	if dt <= 0 {
		return
	}
	if c.mode != ViewFirstPerson {
		c.offset = mgl32.Vec3{}
		return
	}
	var dir mgl32.Vec3
	if c.held[KeyD] {
		dir[0]++
	}
	if c.held[KeyA] {
		dir[0]--
	}
	if c.held[KeyE] {
		dir[1]++
	}
	if c.held[KeyQ] {
		dir[1]--
	}
	if c.held[KeyW] {
		dir[2]++
	}
	if c.held[KeyS] {
		dir[2]--
	}
	if dir.Len() > 0 {
		speed := c.cfg.MoveSpeed
		if c.held[KeyShift] {
			speed *= c.cfg.BoostFactor
		}
		c.offset = c.offset.Add(dir.Normalize().Mul(speed * dt))
	}
	c.offset = c.offset.Mul(math32.Exp(-c.cfg.Damping * dt))
	if l := c.offset.Len(); l > c.cfg.MaxOffset {
		c.offset = c.offset.Mul(c.cfg.MaxOffset / l)
	}
}

// Camera returns the state for the active mode at simulation time t.
func (c *Controller) Camera(t float32, tracker BodyTracker) CameraState {
	return ComputeCamera(c.cfg, c.mode, c.angles, c.offset, c.tracked, t, tracker)
}

// ActiveMode is the mode the camera renders with at time t. See ResolveMode.
func (c *Controller) ActiveMode(t float32, tracker BodyTracker) ViewMode {
	return ResolveMode(c.mode, c.tracked, t, tracker)
}

// ResolveMode maps a requested mode to the one the camera is built for. First person
// without a trackable body falls back to free orbit, and so must its culling distance.
func ResolveMode(mode ViewMode, tracked int, t float32, tracker BodyTracker) ViewMode {
	switch {
	case mode >= ViewModeCount:
		return ViewFreeOrbit
	case mode == ViewFirstPerson:
		if tracker == nil {
			return ViewFreeOrbit
		}
		if _, _, ok := tracker.BodyState(tracked, t); !ok {
			return ViewFreeOrbit
		}
	}
	return mode
}

// ComputeCamera is the pure per-mode camera function.
func ComputeCamera(cfg ControllerConfig, mode ViewMode, a AngularState, offset mgl32.Vec3, tracked int, t float32, tracker BodyTracker) CameraState {
	yaw := mgl32.DegToRad(a.Yaw)
	pitch := mgl32.DegToRad(a.Pitch)
	fov := mgl32.DegToRad(cfg.FieldOfView)
	mode = ResolveMode(mode, tracked, t, tracker)

	switch mode {
	case ViewHorizon:
		r := cfg.BodyRadius + cfg.HorizonAltitude
		pos := mgl32.Vec3{r, 0, 0}
		radial, east, north := mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}
		sy, cy := math32.Sincos(yaw)
		sp, cp := math32.Sincos(pitch)
		fwd := radial.Mul(cp * cy).Add(east.Mul(cp * sy)).Add(north.Mul(sp))
		return CameraState{
			Position:    pos,
			Target:      pos.Add(fwd.Mul(r)),
			Up:          north,
			FieldOfView: fov,
			Near:        cfg.Near[mode],
			Far:         cfg.Far[mode],
		}

	case ViewFirstPerson:
		p, v, _ := tracker.BodyState(tracked, t)
		return firstPerson(cfg, p, v, yaw, pitch, offset, fov)

	case ViewGround:
		lat := mgl32.DegToRad(cfg.GroundLatitude)
		slon, clon := math32.Sincos(yaw)
		slat, clat := math32.Sincos(lat)
		up := mgl32.Vec3{clat * clon, clat * slon, slat}
		east := mgl32.Vec3{-slon, clon, 0}
		sp, cp := math32.Sincos(pitch)
		look := east.Mul(cp).Add(up.Mul(sp))
		pos := up.Mul(cfg.BodyRadius + cfg.GroundEyeHeight)
		return CameraState{
			Position:    pos,
			Target:      pos.Add(look.Mul(lookAhead)),
			Up:          up,
			FieldOfView: fov,
			Near:        cfg.Near[mode],
			Far:         cfg.Far[mode],
		}
	}

	sy, cy := math32.Sincos(yaw)
	sp, cp := math32.Sincos(pitch)
	pos := mgl32.Vec3{cp * cy, cp * sy, sp}.Mul(a.Distance)
	return CameraState{
		Position:    pos,
		Target:      mgl32.Vec3{},
		Up:          mgl32.Vec3{0, 0, 1},
		FieldOfView: fov,
		Near:        math32.Max(cfg.Near[ViewFreeOrbit], (a.Distance-cfg.BodyRadius)*0.01),
		Far:         a.Distance + cfg.Far[ViewFreeOrbit],
	}
}

// firstPerson builds a local right-handed frame on the body (radial up, velocity forward)
// and turns it by yaw about up and then pitch about the turned right axis.
func firstPerson(cfg ControllerConfig, p, v mgl32.Vec3, yaw, pitch float32, offset mgl32.Vec3, fov float32) CameraState {
	up := p.Normalize()
	fwd := v.Sub(up.Mul(v.Dot(up)))
	if fwd.Len() < 1e-6 {
		fwd = anyPerpendicular(up)
	}
	fwd = fwd.Normalize()
	right := fwd.Cross(up)

	fwdYaw := Rodrigues(fwd, up, yaw)
	rightYaw := Rodrigues(right, up, yaw)
	look := Rodrigues(fwdYaw, rightYaw, pitch)
	camUp := Rodrigues(up, rightYaw, pitch)

	pos := p.Add(rightYaw.Mul(offset[0])).Add(up.Mul(offset[1])).Add(fwdYaw.Mul(offset[2]))
	return CameraState{
		Position:    pos,
		Target:      pos.Add(look.Mul(lookAhead)),
		Up:          camUp,
		FieldOfView: fov,
		Near:        cfg.Near[ViewFirstPerson],
		Far:         cfg.Far[ViewFirstPerson],
	}
}

// Rodrigues rotates v by angle radians about the unit axis k.
func Rodrigues(v, k mgl32.Vec3, angle float32) mgl32.Vec3 {
	s, c := math32.Sincos(angle)
	return v.Mul(c).Add(k.Cross(v).Mul(s)).Add(k.Mul(k.Dot(v) * (1 - c)))
}

func anyPerpendicular(n mgl32.Vec3) mgl32.Vec3 {
	ref := mgl32.Vec3{0, 0, 1}
	if math32.Abs(n[2]) > 0.9 {
		ref = mgl32.Vec3{1, 0, 0}
	}
	return ref.Sub(n.Mul(ref.Dot(n)))
}
