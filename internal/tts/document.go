package tts

// Transform positions an object in the Tabletop Simulator scene.
type Transform struct {
	PosX   float64 `json:"posX"`
	PosY   float64 `json:"posY"`
	PosZ   float64 `json:"posZ"`
	RotX   float64 `json:"rotX"`
	RotY   float64 `json:"rotY"`
	RotZ   float64 `json:"rotZ"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	ScaleZ float64 `json:"scaleZ"`
}

// baseTransform is the neutral placement for cards and face-up stacks.
// Tabletop Simulator card sheets load mirrored, so every object carries a
// 180 degree yaw.
func baseTransform() Transform {
	return Transform{RotY: 180.0, ScaleX: 1.0, ScaleY: 1.0, ScaleZ: 1.0}
}

// ColorDiffuse is the object tint. White leaves card art unmodified.
type ColorDiffuse struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

func white() ColorDiffuse { return ColorDiffuse{R: 1.0, G: 1.0, B: 1.0} }

// PageRef describes one sprite-sheet page inside a CustomDeck map.
type PageRef struct {
	FaceURL   string `json:"FaceURL"`
	BackURL   string `json:"BackURL"`
	NumHeight int    `json:"NumHeight"`
	NumWidth  int    `json:"NumWidth"`
}

// CardObject is a single physical card inside a deck stack.
type CardObject struct {
	Name         string             `json:"Name"`
	CardID       int                `json:"CardID"`
	ColorDiffuse ColorDiffuse       `json:"ColorDiffuse"`
	CustomDeck   map[string]PageRef `json:"CustomDeck"`
	Transform    Transform          `json:"Transform"`
	Nickname     string             `json:"Nickname"`
	Description  string             `json:"Description,omitempty"`
}

// Stack is one top-level scene object, either a lone "Card" or a "Deck"
// containing every physical copy in a pile.
type Stack struct {
	ColorDiffuse     ColorDiffuse       `json:"ColorDiffuse"`
	CustomDeck       map[string]PageRef `json:"CustomDeck"`
	Grid             bool               `json:"Grid"`
	Locked           bool               `json:"Locked"`
	Snap             bool               `json:"Snap"`
	Transform        Transform          `json:"Transform"`
	Name             string             `json:"Name"`
	Nickname         string             `json:"Nickname"`
	Description      string             `json:"Description,omitempty"`
	CardID           int                `json:"CardID,omitempty"`
	DeckIDs          []int              `json:"DeckIDs,omitempty"`
	ContainedObjects []CardObject       `json:"ContainedObjects,omitempty"`
}

// Document is the complete saved-object file.
type Document struct {
	ObjectStates []Stack `json:"ObjectStates"`
}
