package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// scaledTheme multiplies every theme size by a user-chosen factor. Setting
// it on the app settings restyles all open windows immediately, which is
// how the scaling entry takes effect without a restart.
type scaledTheme struct {
	fyne.Theme
	factor float64
}

func newScaledTheme(factor float64) fyne.Theme {
	return scaledTheme{Theme: theme.DefaultTheme(), factor: factor}
}

func (t scaledTheme) Size(n fyne.ThemeSizeName) float32 {
	return float32(t.factor) * t.Theme.Size(n)
}

func applyScaling(app fyne.App, factor float64) {
	app.Settings().SetTheme(newScaledTheme(factor))
}
