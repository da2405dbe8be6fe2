package rpm

// MockQuerier implements PackageQuerier for testing.
// Each method can be configured with a custom function to control behavior.
type MockQuerier struct {
	ReleaseFunc   func() (string, error)
	InstalledFunc func() ([]NEVRA, []string, error)
}

// Release returns the release identifier of the running system
func (m *MockQuerier) Release() (string, error) {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc()
	}
	return "F41", nil
}

// Installed returns the installed source package set
func (m *MockQuerier) Installed() ([]NEVRA, []string, error) {
	if m.InstalledFunc != nil {
		return m.InstalledFunc()
	}
	return nil, nil, nil
}
