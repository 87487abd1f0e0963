package systempref

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bnema/sitetheme/internal/application/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDetector implements port.SignalDetector for testing.
type mockDetector struct {
	name      string
	priority  int
	available bool
	value     bool
	detectOk  bool
}

func (m *mockDetector) Name() string         { return m.name }
func (m *mockDetector) Priority() int        { return m.priority }
func (m *mockDetector) Available() bool      { return m.available }
func (m *mockDetector) Detect() (bool, bool) { return m.value, m.detectOk }

func TestResolver_ConfigOverride(t *testing.T) {
	tests := []struct {
		name       string
		override   string
		wantValue  bool
		wantSource string
	}{
		{name: "dark", override: "dark", wantValue: true, wantSource: "config"},
		{name: "true", override: "true", wantValue: true, wantSource: "config"},
		{name: "reduce", override: "reduce", wantValue: true, wantSource: "config"},
		{name: "light", override: "light", wantValue: false, wantSource: "config"},
		{name: "no-preference", override: "no-preference", wantValue: false, wantSource: "config"},
		{name: "auto falls through", override: "auto", wantValue: true, wantSource: "test"},
		{name: "empty falls through", override: "", wantValue: true, wantSource: "test"},
		{name: "garbage falls through", override: "sometimes", wantValue: true, wantSource: "test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolver(SignalPrefersDark, false, OverrideFunc(func() string { return tt.override }))
			resolver.RegisterDetector(&mockDetector{name: "test", priority: 50, available: true, value: true, detectOk: true})

			pref := resolver.Resolve()

			assert.Equal(t, tt.wantValue, pref.Value)
			assert.Equal(t, tt.wantSource, pref.Source)
		})
	}
}

func TestResolver_DetectorPriority(t *testing.T) {
	resolver := NewResolver(SignalPrefersDark, false, nil)

	// Register low first, high second (order shouldn't matter)
	resolver.RegisterDetector(&mockDetector{name: "low", priority: 10, available: true, value: true, detectOk: true})
	resolver.RegisterDetector(&mockDetector{name: "high", priority: 100, available: true, value: false, detectOk: true})

	pref := resolver.Resolve()

	assert.False(t, pref.Value)
	assert.Equal(t, "high", pref.Source)
}

func TestResolver_SkipsUnavailableAndFailed(t *testing.T) {
	resolver := NewResolver(SignalReducedMotion, false, nil)

	resolver.RegisterDetector(&mockDetector{name: "unavailable", priority: 100, available: false, detectOk: true})
	resolver.RegisterDetector(&mockDetector{name: "failing", priority: 90, available: true, detectOk: false})
	resolver.RegisterDetector(&mockDetector{name: "succeeding", priority: 10, available: true, value: true, detectOk: true})

	pref := resolver.Resolve()

	assert.True(t, pref.Value)
	assert.Equal(t, "succeeding", pref.Source)
}

func TestResolver_Fallback(t *testing.T) {
	light := NewResolver(SignalPrefersDark, false, nil)
	assert.Equal(t, port.SignalPreference{Value: false, Source: "fallback"}, light.Resolve())

	dark := NewResolver(SignalPrefersDark, true, nil)
	dark.RegisterDetector(&mockDetector{name: "fail", priority: 100, available: true, detectOk: false})
	assert.Equal(t, port.SignalPreference{Value: true, Source: "fallback"}, dark.Resolve())
}

func TestResolver_ResolveReadsAtCallTime(t *testing.T) {
	resolver := NewResolver(SignalPrefersDark, false, nil)
	detector := &mockDetector{name: "test", priority: 50, available: true, detectOk: true}
	resolver.RegisterDetector(detector)

	assert.False(t, resolver.Current())
	detector.value = true
	assert.True(t, resolver.Current())
}

func TestResolver_OnChange(t *testing.T) {
	resolver := NewResolver(SignalPrefersDark, false, nil)
	detector := &mockDetector{name: "test", priority: 50, available: true, value: false, detectOk: true}
	resolver.RegisterDetector(detector)

	var got []port.SignalPreference
	unregister := resolver.OnChange(func(pref port.SignalPreference) {
		got = append(got, pref)
	})

	// Same as the fallback: no notification
	resolver.Refresh()
	assert.Empty(t, got)

	detector.value = true
	resolver.Refresh()
	require.Len(t, got, 1)
	assert.True(t, got[0].Value)
	assert.Equal(t, "test", got[0].Source)

	resolver.Refresh()
	assert.Len(t, got, 1)

	unregister()
	unregister()
	detector.value = false
	resolver.Refresh()
	assert.Len(t, got, 1)
}

func TestResolver_CallbackMayUnregisterItself(t *testing.T) {
	resolver := NewResolver(SignalPrefersDark, false, nil)
	detector := &mockDetector{name: "test", priority: 50, available: true, value: true, detectOk: true}
	resolver.RegisterDetector(detector)

	calls := 0
	var unregister func()
	unregister = resolver.OnChange(func(port.SignalPreference) {
		calls++
		unregister()
	})

	resolver.Refresh()
	detector.value = false
	resolver.Refresh()
	assert.Equal(t, 1, calls)
}

func TestResolver_ConcurrentAccess(_ *testing.T) {
	resolver := NewResolver(SignalPrefersDark, false, nil)
	resolver.RegisterDetector(&mockDetector{name: "test", priority: 50, available: true, detectOk: true})

	var wg sync.WaitGroup
	const goroutines = 10

	for i := 0; i < goroutines; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				resolver.Resolve()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				resolver.Refresh()
			}
		}()
		go func(id int) {
			defer wg.Done()
			resolver.RegisterDetector(&mockDetector{name: "concurrent", priority: id, available: true, value: id%2 == 0, detectOk: true})
		}(i)
	}

	wg.Wait()
}

func TestParseOverride(t *testing.T) {
	tests := []struct {
		in        string
		wantValue bool
		wantOK    bool
	}{
		{"on", true, true},
		{" YES ", true, true},
		{"prefer-dark", true, true},
		{"off", false, true},
		{"prefer-light", false, true},
		{"auto", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, ok := ParseOverride(tt.in)
			assert.Equal(t, tt.wantValue, v)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestPortalDetector(t *testing.T) {
	tests := []struct {
		name      string
		raw       any
		err       error
		wantValue bool
		wantOK    bool
	}{
		{name: "prefer dark", raw: uint32(1), wantValue: true, wantOK: true},
		{name: "prefer light", raw: uint32(2), wantValue: false, wantOK: true},
		{name: "no preference", raw: uint32(0), wantOK: false},
		{name: "wrong type", raw: "dark", wantOK: false},
		{name: "portal error", err: errors.New("no bus"), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewPortalDarkDetector()
			d.read = func(namespace, key string) (any, error) {
				assert.Equal(t, "org.freedesktop.appearance", namespace)
				assert.Equal(t, "color-scheme", key)
				return tt.raw, tt.err
			}
			v, ok := d.Detect()
			assert.Equal(t, tt.wantValue, v)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestGsettingsDetector(t *testing.T) {
	dark := NewGsettingsDarkDetector()
	dark.run = func(args ...string) ([]byte, error) {
		assert.Equal(t, []string{"get", "org.gnome.desktop.interface", "color-scheme"}, args)
		return []byte("'prefer-dark'\n"), nil
	}
	v, ok := dark.Detect()
	assert.True(t, ok)
	assert.True(t, v)

	dark.run = func(...string) ([]byte, error) { return []byte("'default'\n"), nil }
	_, ok = dark.Detect()
	assert.False(t, ok)

	motion := NewGsettingsMotionDetector()
	motion.run = func(...string) ([]byte, error) { return []byte("false\n"), nil }
	v, ok = motion.Detect()
	assert.True(t, ok)
	assert.True(t, v, "disabled animations mean reduced motion")

	motion.run = func(...string) ([]byte, error) { return nil, errors.New("exit status 1") }
	_, ok = motion.Detect()
	assert.False(t, ok)
}

func TestEnvDetectors(t *testing.T) {
	t.Setenv(EnvReducedMotion, "reduce")
	t.Setenv("GTK_THEME", "Adwaita:dark")

	motion := NewEnvDetector(EnvReducedMotion)
	assert.True(t, motion.Available())
	v, ok := motion.Detect()
	assert.True(t, ok)
	assert.True(t, v)

	gtk := NewGTKThemeDetector()
	v, ok = gtk.Detect()
	assert.True(t, ok)
	assert.True(t, v)

	t.Setenv(EnvPrefersDark, "")
	unset := NewEnvDetector(EnvPrefersDark)
	assert.False(t, unset.Available())
}

func TestNewSignals_EnvOnly(t *testing.T) {
	t.Setenv(EnvPrefersDark, "1")
	t.Setenv(EnvReducedMotion, "0")

	signals := NewSignals([]string{"env"}, nil, nil)

	assert.Equal(t, port.SignalPreference{Value: true, Source: EnvPrefersDark}, signals.Dark.Resolve())
	assert.Equal(t, port.SignalPreference{Value: false, Source: EnvReducedMotion}, signals.Motion.Resolve())
	assert.Len(t, signals.Resolvers(), 2)
}

type manualScheduler struct {
	fn       func()
	interval time.Duration
	cancels  int
}

func (m *manualScheduler) Every(interval time.Duration, fn func()) func() {
	m.interval = interval
	m.fn = fn
	return func() { m.cancels++ }
}

func TestPoller(t *testing.T) {
	resolver := NewResolver(SignalPrefersDark, false, nil)
	detector := &mockDetector{name: "test", priority: 50, available: true, value: true, detectOk: true}
	resolver.RegisterDetector(detector)

	var seen []bool
	resolver.OnChange(func(p port.SignalPreference) { seen = append(seen, p.Value) })

	sched := &manualScheduler{}
	poller := NewPoller(t.Context(), sched, 0, resolver)
	poller.Start()
	poller.Start()

	assert.Equal(t, DefaultPollInterval, sched.interval)
	assert.Equal(t, []bool{true}, seen, "Start primes the resolver")

	detector.value = false
	sched.fn()
	assert.Equal(t, []bool{true, false}, seen)

	poller.Stop()
	poller.Stop()
	assert.Equal(t, 1, sched.cancels)
}
