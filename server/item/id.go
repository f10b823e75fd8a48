package item

// ID is the numeric identifier of an item type. IDs below 256 double as the type of the block that the item
// places.
type ID int16

// Block items.
const (
	Air            ID = 0
	Stone          ID = 1
	Grass          ID = 2
	Dirt           ID = 3
	Cobblestone    ID = 4
	Planks         ID = 5
	Sapling        ID = 6
	Sand           ID = 12
	Gravel         ID = 13
	GoldOre        ID = 14
	IronOre        ID = 15
	CoalOre        ID = 16
	Log            ID = 17
	Leaves         ID = 18
	Glass          ID = 20
	TallGrass      ID = 31
	DeadBush       ID = 32
	Dandelion      ID = 37
	Poppy          ID = 38
	BrownMushroom  ID = 39
	RedMushroom    ID = 40
	Farmland       ID = 60
	Furnace        ID = 61
	BurningFurnace ID = 62
	Cactus         ID = 81
	GrassPath      ID = 198
)

// Regular items.
const (
	IronShovel     ID = 256
	IronPickaxe    ID = 257
	IronAxe        ID = 258
	Coal           ID = 263
	Diamond        ID = 264
	IronIngot      ID = 265
	GoldIngot      ID = 266
	WoodenShovel   ID = 269
	WoodenPickaxe  ID = 270
	WoodenAxe      ID = 271
	StoneShovel    ID = 273
	StonePickaxe   ID = 274
	DiamondShovel  ID = 277
	DiamondPickaxe ID = 278
	Stick          ID = 280
	GoldenShovel   ID = 284
	GoldenPickaxe  ID = 285
	WoodenHoe      ID = 290
	StoneHoe       ID = 291
	IronHoe        ID = 292
	DiamondHoe     ID = 293
	GoldenHoe      ID = 294
	Sign           ID = 323
	Dye            ID = 351
	WrittenBook    ID = 387
	FlowerPot      ID = 390
)

// BoneMealMeta is the dye meta value of bone meal.
const BoneMealMeta = 15

// IsHoe reports if the ID is one of the hoe tiers.
func (id ID) IsHoe() bool {
	return id >= WoodenHoe && id <= GoldenHoe
}

// IsShovel reports if the ID is one of the shovel tiers.
func (id ID) IsShovel() bool {
	switch id {
	case WoodenShovel, StoneShovel, IronShovel, GoldenShovel, DiamondShovel:
		return true
	}
	return false
}

// IsPickaxe reports if the ID is one of the pickaxe tiers.
func (id ID) IsPickaxe() bool {
	switch id {
	case WoodenPickaxe, StonePickaxe, IronPickaxe, GoldenPickaxe, DiamondPickaxe:
		return true
	}
	return false
}

// MaxCount returns the maximum amount of items of this ID that fit in a single stack.
func (id ID) MaxCount() int {
	switch {
	case id.IsHoe(), id.IsShovel(), id.IsPickaxe(), id == IronAxe, id == WoodenAxe:
		return 1
	case id == Sign, id == WrittenBook:
		return 16
	}
	return 64
}
