package models

// Modal represents a UI intended to be temporarily shown to the user before returning to the player
type Modal string

// Available modals in the application
const (
	ModalNone Modal = "none"
	ModalHelp Modal = "help"
)
