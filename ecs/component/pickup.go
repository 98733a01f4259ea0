package component

// CollectibleKind selects the on-collect effect.
type CollectibleKind string

const (
	CollectibleHeal     CollectibleKind = "heal"
	CollectibleJumpBuff CollectibleKind = "jump_buff"
)

// Collectible is a single-use pickup. Amount is the heal amount or the
// boosted jump height depending on Kind. Duration only applies to buffs.
type Collectible struct {
	Kind        CollectibleKind
	Amount      float64
	Duration    float64
	DisplayName string
}

var CollectibleComponent = NewComponent[Collectible]()

// Spin rotates and bobs an entity in place around BaseY.
type Spin struct {
	DegreesPerSecond float64
	BobAmplitude     float64
	BobSpeed         float64
	BaseY            float64
	Initialized      bool
}

var SpinComponent = NewComponent[Spin]()
