package core

import (
	"strconv"
	"strings"
)

// KeyCode is a platform-independent numeric key code.
// The values follow the classic DOM keyCode numbering so games can refer to
// keys symbolically instead of hardcoding numbers.
type KeyCode int

// Named key codes.
const (
	KeyBackspace KeyCode = 8
	KeyTab       KeyCode = 9
	KeyReturn    KeyCode = 13
	KeyEsc       KeyCode = 27
	KeySpace     KeyCode = 32
	KeyPageUp    KeyCode = 33
	KeyPageDown  KeyCode = 34
	KeyEnd       KeyCode = 35
	KeyHome      KeyCode = 36
	KeyLeft      KeyCode = 37
	KeyUp        KeyCode = 38
	KeyRight     KeyCode = 39
	KeyDown      KeyCode = 40
	KeyInsert    KeyCode = 45
	KeyDelete    KeyCode = 46
	KeyTilda     KeyCode = 192
)

// Digit and letter ranges. Digits are contiguous from Key0, letters from KeyA.
const (
	Key0 KeyCode = 48
	Key1 KeyCode = 49
	Key2 KeyCode = 50
	Key9 KeyCode = 57

	KeyA KeyCode = 65
	KeyL KeyCode = 76
	KeyP KeyCode = 80
	KeyQ KeyCode = 81
	KeyZ KeyCode = 90
)

var keyNames = map[KeyCode]string{
	KeyBackspace: "BACKSPACE",
	KeyTab:       "TAB",
	KeyReturn:    "RETURN",
	KeyEsc:       "ESC",
	KeySpace:     "SPACE",
	KeyPageUp:    "PAGEUP",
	KeyPageDown:  "PAGEDOWN",
	KeyEnd:       "END",
	KeyHome:      "HOME",
	KeyLeft:      "LEFT",
	KeyUp:        "UP",
	KeyRight:     "RIGHT",
	KeyDown:      "DOWN",
	KeyInsert:    "INSERT",
	KeyDelete:    "DELETE",
	KeyTilda:     "TILDA",
}

var digitNames = [...]string{"ZERO", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE"}

// Letter returns the key code for an ASCII letter, either case.
// ok is false for any other rune.
func Letter(r rune) (code KeyCode, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + KeyCode(r-'a'), true
	case r >= 'A' && r <= 'Z':
		return KeyA + KeyCode(r-'A'), true
	}
	return 0, false
}

// Digit returns the key code for an ASCII digit.
func Digit(r rune) (code KeyCode, ok bool) {
	if r >= '0' && r <= '9' {
		return Key0 + KeyCode(r-'0'), true
	}
	return 0, false
}

// String returns the symbolic name of the key code.
func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= Key0 && k <= Key9 {
		return digitNames[k-Key0]
	}
	if k >= KeyA && k <= KeyZ {
		return string(rune('A' + (k - KeyA)))
	}
	return "KEY(" + strconv.Itoa(int(k)) + ")"
}

// KeyCodeByName looks up a key code by its symbolic name, case-insensitively.
func KeyCodeByName(name string) (KeyCode, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for code, n := range keyNames {
		if n == name {
			return code, true
		}
	}
	for i, n := range digitNames {
		if n == name {
			return Key0 + KeyCode(i), true
		}
	}
	if len(name) == 1 {
		if code, ok := Letter(rune(name[0])); ok {
			return code, true
		}
	}
	return 0, false
}
