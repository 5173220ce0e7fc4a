package ux

import "github.com/ha1tch/schematic-toolkit/pkg/geom"

// panKeys pans the view with W, A, S and D at a fixed screen speed.
func (u *UX) panKeys() {
	var dir geom.Vec
	keys := u.input.KeysDown
	if keys.Has(KeyW) {
		dir.Y++
	}
	if keys.Has(KeyA) {
		dir.X++
	}
	if keys.Has(KeyS) {
		dir.Y--
	}
	if keys.Has(KeyD) {
		dir.X--
	}
	if dir.X != 0 || dir.Y != 0 {
		u.camera.PanScreen(dir, u.input.FrameDuration)
	}
}

func (u *UX) shortcuts() {
	pressed := u.input.KeysPressed
	mods := u.input.Modifiers
	command := mods.Has(ModCtrl) || mods.Has(ModSuper)

	switch {
	case command && pressed.Has(KeyZ) && mods.Has(ModShift):
		u.Redo()
	case command && pressed.Has(KeyZ):
		u.Undo()
	case command && pressed.Has(KeyY):
		u.Redo()
	}

	if pressed.Has(KeySpace) {
		u.debug = !u.debug
	}
	if pressed.Has(KeyB) {
		u.betterRoute = !u.betterRoute
		u.log.Infof("better routes: %t", u.betterRoute)
	}
	if pressed.Has(KeyF3) {
		u.showFPS = true
	}
	if pressed.Has(KeyEscape) && (u.state == StateAddingComponent || u.state == StateAddComponent) {
		u.StopAddingComponent()
	}
}
