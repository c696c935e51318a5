package editorstate

// Command is the editor's dispatchable action vocabulary (spec.md
// §4.6). Key routing resolves a Key event to a Command before handing
// it to the active focus handler.
type Command int

const (
	CommandNone Command = iota
	CommandSelectAll
	CommandCopy
	CommandPaste
	CommandCut
	CommandSave
	CommandNewWorkspace
	CommandCloseWorkspace
	CommandNewTab
	CommandNewTerminalTab
	CommandCloseTab
	CommandCycleTabForward
	CommandCycleTabBackward
	CommandSwitchWorkspace // N carried out of band by the caller
	CommandTogglePicker
	CommandFindInFile
	CommandQuit
	CommandCloseOverlay
	CommandConfirmAccept
)

// Modifiers is a plain bitmask with the same bit layout as
// events.Modifiers, so callers convert between the two with a type
// conversion; this package does not import events.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModPrimary
	ModAlt
)

type binding struct {
	key  string
	mods Modifiers
	cmd  Command
}

// bindings lists PrimaryMod-based shortcuts before any Control-only
// ones, so ResolveCommand's precedence (PrimaryMod before Ctrl) holds
// by construction rather than by runtime branching.
var bindings = []binding{
	{"p", ModPrimary, CommandTogglePicker},
	{"f", ModPrimary, CommandFindInFile},
	{"s", ModPrimary, CommandSave},
	{"a", ModPrimary, CommandSelectAll},
	{"c", ModPrimary, CommandCopy},
	{"v", ModPrimary, CommandPaste},
	{"x", ModPrimary, CommandCut},
	{"n", ModPrimary, CommandNewWorkspace},
	{"w", ModPrimary | ModShift, CommandCloseWorkspace},
	{"t", ModPrimary, CommandNewTab},
	{"t", ModPrimary | ModShift, CommandNewTerminalTab},
	{"w", ModPrimary, CommandCloseTab},
	{"]", ModPrimary | ModShift, CommandCycleTabForward},
	{"[", ModPrimary | ModShift, CommandCycleTabBackward},
	{"q", ModPrimary, CommandQuit},
	{"escape", 0, CommandCloseOverlay},
	{"enter", 0, CommandConfirmAccept},
}

// ResolveCommand maps a key + modifier set to a Command. PrimaryMod
// bindings are matched before any Control-only binding so that
// PrimaryMod+A always means select-all even on platforms where
// PrimaryMod and Control are the same physical key (spec.md §4.6).
func ResolveCommand(key string, mods Modifiers) (Command, bool) {
	for _, b := range bindings {
		if b.key == key && b.mods == mods {
			return b.cmd, true
		}
	}
	if key >= "1" && key <= "9" && mods == ModPrimary {
		return CommandSwitchWorkspace, true
	}
	return CommandNone, false
}
