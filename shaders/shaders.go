package shaders

import (
	_ "embed"
)

//go:embed basic.vert
var BasicVert string

//go:embed basic.frag
var BasicFrag string

//go:embed lit.vert
var LitVert string

//go:embed lit.frag
var LitFrag string

//go:embed hud.vert
var HudVert string

//go:embed hud.frag
var HudFrag string
