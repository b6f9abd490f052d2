package wlmtk

// windowMenu is the menu opened from the title bar.
type windowMenu struct {
	Menu
	window *Window

	maximize   *MenuItem
	fullscreen *MenuItem
	shade      *MenuItem
	minimize   *MenuItem
	close      *MenuItem
}

func newWindowMenu(w *Window) *windowMenu {
	m := &windowMenu{window: w}
	m.style = w.menuStyle
	m.renderer = w.renderer
	m.orientation = Vertical
	m.InitContainer(m)

	m.maximize = m.AddItem("Maximize", m.action(func() {
		w.RequestMaximized(!w.Maximized())
	}))
	m.fullscreen = m.AddItem("Fullscreen", m.action(func() {
		w.RequestFullscreen(!w.Fullscreen())
	}))
	m.shade = m.AddItem("Shade", m.action(func() {
		w.RequestShaded(!w.Shaded())
	}))
	m.minimize = m.AddItem("Minimize", m.action(w.RequestMinimize))
	m.close = m.AddItem("Close", m.action(w.RequestClose))
	m.update()
	return m
}

// action closes the menu before running fn, which may destroy the window.
func (m *windowMenu) action(fn func()) func() {
	return func() {
		m.window.RequestMenu(false)
		fn()
	}
}

// update refreshes labels and enabled state from the window.
func (m *windowMenu) update() {
	w := m.window
	if w.Maximized() {
		m.maximize.SetText("Unmaximize")
	} else {
		m.maximize.SetText("Maximize")
	}
	m.maximize.SetEnabled(!w.Fullscreen() && w.Workspace() != nil)

	if w.Fullscreen() {
		m.fullscreen.SetText("Leave fullscreen")
	} else {
		m.fullscreen.SetText("Fullscreen")
	}
	m.fullscreen.SetEnabled(w.Workspace() != nil)

	if w.Shaded() {
		m.shade.SetText("Unshade")
	} else {
		m.shade.SetText("Shade")
	}
	m.shade.SetEnabled(w.Titlebar() != nil)

	m.minimize.SetEnabled(w.Properties()&PropertyIconifiable != 0)
	m.close.SetEnabled(w.Properties()&PropertyClosable != 0)
}

func (m *windowMenu) setStyle(style MenuStyle) {
	m.style = style
	for _, item := range m.items {
		item.redraw()
	}
	m.UpdateLayout()
}

func (m *windowMenu) Destroy() {
	m.Menu.Destroy()
	m.window = nil
}
