package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/san-kum/circles/internal/geom"
	"github.com/san-kum/circles/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sweepYAML = `
name: sweep
bodies:
  - {name: a, x: 0, y: 0, r: 10}
  - {name: b, x: -30, y: 0, r: 3}
steps:
  - mutations:
      - {body: b, op: move, x: 20.1, y: 0}
sweep: {body: b, from: [-30, 0], to: [30, 0], samples: 61}
`

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultName, cfg.Name)
	assert.ErrorIs(t, cfg.Validate(), ErrNoBodies)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sweepYAML))
	require.NoError(t, err)

	assert.Equal(t, "sweep", cfg.Name)
	require.Len(t, cfg.Bodies, 2)
	assert.Equal(t, scene.Body{Name: "b", X: -30, Y: 0, R: 3}, cfg.Bodies[1])
	require.Len(t, cfg.Steps, 1)
	assert.Equal(t, scene.OpMove, cfg.Steps[0].Mutations[0].Op)
	assert.Equal(t, float32(20.1), cfg.Steps[0].Mutations[0].X)
	require.NotNil(t, cfg.Sweep)
	assert.Equal(t, [2]float32{30, 0}, cfg.Sweep.To)

	sc, err := cfg.Scene()
	require.NoError(t, err)
	assert.Len(t, sc.Steps, 62)
}

func TestParse_DefaultSamples(t *testing.T) {
	cfg, err := Parse([]byte("bodies: [{name: a, r: 1}]\nsweep: {body: a, to: [5, 5]}\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSamples, cfg.Sweep.Samples)
	assert.Equal(t, DefaultName, cfg.Name)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("bodies: {not: a list"))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	orig := GetPreset("separated")
	require.NoError(t, Save(path, orig))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, orig, loaded)

	a, err := orig.Fingerprint()
	require.NoError(t, err)
	b, err := loaded.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	loaded.Bodies[0].R = 11
	c, err := loaded.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"no bodies", Config{}, ErrNoBodies},
		{"duplicate", Config{Bodies: []scene.Body{{Name: "a"}, {Name: "a"}}}, ErrDuplicateName},
		{"sweep body", Config{Bodies: []scene.Body{{Name: "a"}}, Sweep: &SweepConfig{Body: "z", Samples: 3}}, ErrSweepBody},
		{"sweep samples", Config{Bodies: []scene.Body{{Name: "a"}}, Sweep: &SweepConfig{Body: "a", Samples: 1}}, ErrSweepSamples},
		{"negative radius is not a config error", Config{Bodies: []scene.Body{{Name: "a", R: -1}}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	cfg := GetPreset("separated")
	require.NotNil(t, cfg)
	cfg.Bodies[0].R = 99
	cfg.Steps[0].Mutations[0].X = 99

	again := GetPreset("separated")
	assert.Equal(t, float32(10), again.Bodies[0].R)
	assert.Equal(t, float32(20.1), again.Steps[0].Mutations[0].X)
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	assert.Equal(t, []string{"grow", "identical", "nested", "separated", "sweep", "tangent"}, names)
}

func TestPresets_Run(t *testing.T) {
	final := map[string]geom.Relation{
		"identical": geom.Touching,
		"separated": geom.Separate,
		"tangent":   geom.Touching,
		"nested":    geom.Nested,
		"sweep":     geom.Separate,
		"grow":      geom.Nested,
	}
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			sc, err := GetPreset(name).Scene()
			require.NoError(t, err)
			res, err := scene.New(nil).Run(context.Background(), sc)
			require.NoError(t, err)
			last := res.Frames[len(res.Frames)-1]
			require.Len(t, last.Contacts, 1)
			assert.Equal(t, final[name], last.Contacts[0].Relation)
		})
	}
}
