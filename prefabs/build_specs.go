package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

type ColliderComponentSpec struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Depth     float64 `yaml:"depth"`
	OffsetY   float64 `yaml:"offset_y"`
	Layer     string  `yaml:"layer"`
	Trigger   bool    `yaml:"trigger"`
	Kinematic bool    `yaml:"kinematic"`
}

type CharacterBodyComponentSpec struct {
	Radius     float64  `yaml:"radius"`
	Height     float64  `yaml:"height"`
	StepHeight float64  `yaml:"step_height"`
	Layer      string   `yaml:"layer"`
	SolidMask  []string `yaml:"solid_mask"`
}

// PlayerControllerComponentSpec overrides tuning; zero fields keep the
// defaults.
type PlayerControllerComponentSpec struct {
	MoveSpeed          float64  `yaml:"move_speed"`
	SprintSpeed        float64  `yaml:"sprint_speed"`
	RotationSmoothTime float64  `yaml:"rotation_smooth_time"`
	SpeedChangeRate    float64  `yaml:"speed_change_rate"`
	JumpHeight         float64  `yaml:"jump_height"`
	Gravity            float64  `yaml:"gravity"`
	JumpTimeout        float64  `yaml:"jump_timeout"`
	FallTimeout        float64  `yaml:"fall_timeout"`
	TerminalVelocity   float64  `yaml:"terminal_velocity"`
	GroundedOffset     float64  `yaml:"grounded_offset"`
	GroundedRadius     float64  `yaml:"grounded_radius"`
	GroundLayers       []string `yaml:"ground_layers"`
}

type HealthComponentSpec struct {
	Max            int     `yaml:"max"`
	InvincibleTime float64 `yaml:"invincible_time"`
}

type KnockbackComponentSpec struct {
	Force       float64 `yaml:"force"`
	UpwardForce float64 `yaml:"upward_force"`
	Duration    float64 `yaml:"duration"`
}

type CameraRigComponentSpec struct {
	TopClamp     float64 `yaml:"top_clamp"`
	BottomClamp  float64 `yaml:"bottom_clamp"`
	SensitivityX float64 `yaml:"sensitivity_x"`
	SensitivityY float64 `yaml:"sensitivity_y"`
	LockYaw      bool    `yaml:"lock_yaw"`
}

type CameraFollowComponentSpec struct {
	TargetName string  `yaml:"target_name"`
	Distance   float64 `yaml:"distance"`
	Height     float64 `yaml:"height"`
	FOV        float64 `yaml:"fov"`
}

type ChaseComponentSpec struct {
	TargetName  string  `yaml:"target_name"`
	DetectRange float64 `yaml:"detect_range"`
	ExitBand    float64 `yaml:"exit_band"`
}

type NavAgentComponentSpec struct {
	Speed            float64 `yaml:"speed"`
	StoppingDistance float64 `yaml:"stopping_distance"`
}

type PathfindingComponentSpec struct {
	GridSize    float64 `yaml:"grid_size"`
	RepathTicks int     `yaml:"repath_ticks"`
}

type HazardComponentSpec struct {
	Amount int `yaml:"amount"`
}

type CollectibleComponentSpec struct {
	Kind        string  `yaml:"kind"`
	Amount      float64 `yaml:"amount"`
	Duration    float64 `yaml:"duration"`
	DisplayName string  `yaml:"display_name"`
}

type SpinComponentSpec struct {
	DegreesPerSecond float64 `yaml:"degrees_per_second"`
	BobAmplitude     float64 `yaml:"bob_amplitude"`
	BobSpeed         float64 `yaml:"bob_speed"`
}

type MovingBlockComponentSpec struct {
	Speed     float64 `yaml:"speed"`
	Amplitude float64 `yaml:"amplitude"`
	Phase     float64 `yaml:"phase"`
}

type DamageFlashComponentSpec struct {
	Speed float64   `yaml:"speed"`
	Base  YAMLColor `yaml:"base"`
	Flash YAMLColor `yaml:"flash"`
}

type TintComponentSpec struct {
	Color YAMLColor `yaml:"color"`
}

type FallCheckerComponentSpec struct {
	Threshold float64 `yaml:"threshold"`
}

type SceneTimerComponentSpec struct {
	Delay  float64 `yaml:"delay"`
	Target string  `yaml:"target"`
}

type ScenePortalComponentSpec struct {
	Target string `yaml:"target"`
}

type VelocityComponentSpec struct {
	Mass       float64 `yaml:"mass"`
	Drag       float64 `yaml:"drag"`
	UseGravity bool    `yaml:"use_gravity"`
}

type GuideAgentComponentSpec struct {
	SubjectName    string  `yaml:"subject_name"`
	TargetName     string  `yaml:"target_name"`
	Script         string  `yaml:"script"`
	AssistPower    float64 `yaml:"assist_power"`
	SuccessRadius  float64 `yaml:"success_radius"`
	StepPenalty    float64 `yaml:"step_penalty"`
	AreaHalfExtent float64 `yaml:"area_half_extent"`
	MaxSteps       int     `yaml:"max_steps"`
	Seed           int64   `yaml:"seed"`
}
