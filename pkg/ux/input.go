package ux

import (
	"strings"
	"time"

	"github.com/ha1tch/schematic-toolkit/pkg/geom"
)

// Modifier is a bit set of held mouse buttons and modifier keys.
type Modifier uint8

const (
	ModLMB Modifier = 1 << iota
	ModRMB
	ModShift
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether every bit of m2 is set in m.
func (m Modifier) Has(m2 Modifier) bool {
	return m&m2 == m2
}

// Key identifies a keyboard key.
type Key uint8

const (
	KeyNone Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	keyCount
)

var keyNames = func() [keyCount]string {
	var names [keyCount]string
	for k := KeyA; k <= KeyZ; k++ {
		names[k] = string(rune('a' + int(k-KeyA)))
	}
	for k := KeyF1; k <= KeyF12; k++ {
		names[k] = "f" + []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}[k-KeyF1]
	}
	names[KeyNone] = "none"
	names[KeySpace] = "space"
	names[KeyEscape] = "escape"
	names[KeyEnter] = "enter"
	names[KeyTab] = "tab"
	names[KeyBackspace] = "backspace"
	names[KeyDelete] = "delete"
	return names
}()

// String returns the lower-case key name used in replay scripts.
func (k Key) String() string {
	if k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// ParseKey looks a key up by name, ignoring case.
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := KeyA; k < keyCount; k++ {
		if keyNames[k] == name {
			return k, true
		}
	}
	return KeyNone, false
}

// KeySet is a bit set over Key.
type KeySet [2]uint64

// Set marks k.
func (s *KeySet) Set(k Key) {
	s[k/64] |= 1 << (k % 64)
}

// Clear unmarks k.
func (s *KeySet) Clear(k Key) {
	s[k/64] &^= 1 << (k % 64)
}

// Has reports whether k is marked.
func (s KeySet) Has(k Key) bool {
	return s[k/64]&(1<<(k%64)) != 0
}

// Empty reports whether no key is marked.
func (s KeySet) Empty() bool {
	return s[0] == 0 && s[1] == 0
}

// Keys returns the marked keys in code order.
func (s KeySet) Keys() []Key {
	var keys []Key
	for k := KeyA; k < keyCount; k++ {
		if s.Has(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Input is one frame's sample of the input devices.
type Input struct {
	MousePos      geom.Vec // screen space
	Scroll        geom.Vec
	Modifiers     Modifier
	KeysDown      KeySet // held this frame
	KeysPressed   KeySet // went down this frame
	FrameDuration time.Duration
}
