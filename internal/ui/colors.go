package ui

// Color accessor functions return the escape codes of the currently active
// theme. Presentation code calls these rather than referencing a theme
// directly so that theme changes take effect immediately.

// ColorPrimary returns the primary accent color code.
func ColorPrimary() string { return GetCurrentTheme().Primary }

// ColorSecondary returns the secondary color code.
func ColorSecondary() string { return GetCurrentTheme().Secondary }

// ColorSuccess returns the success color code.
func ColorSuccess() string { return GetCurrentTheme().Success }

// ColorWarning returns the warning color code.
func ColorWarning() string { return GetCurrentTheme().Warning }

// ColorError returns the error color code.
func ColorError() string { return GetCurrentTheme().Error }

// ColorInfo returns the info color code.
func ColorInfo() string { return GetCurrentTheme().Info }

// ColorBold returns the bold escape code.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorReset returns the formatting reset code.
func ColorReset() string { return GetCurrentTheme().Reset }
