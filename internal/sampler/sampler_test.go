package sampler

import (
	"math"
	"testing"

	"github.com/minin64/objexport/pkg/mathx"
	"github.com/minin64/objexport/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDoc = `{
	"objects": [
		{
			"name": "anchor",
			"translation": [100, 0, 0],
			"rotation": [0, 1.5707963267948966, 0],
			"scale": [2, 2, 2]
		},
		{
			"name": "satellite",
			"parent": "anchor",
			"translation": [0, 0, 10]
		},
		{
			"name": "loner",
			"translation": [1, 2, 3],
			"rotation": [0.5, 0, 0]
		}
	]
}`

func testScene(t *testing.T) scene.Scene {
	t.Helper()
	doc, err := scene.ParseDocument([]byte(testDoc))
	require.NoError(t, err)
	return doc
}

func TestSampleWorld(t *testing.T) {
	sc := testScene(t)

	got, err := Sample(sc, "satellite", false)
	require.NoError(t, err)

	// Parent rotates +90° about Y and scales by 2: child's local +Z lands on
	// world +X at distance 20.
	assert.InDelta(t, 120, got.Translation[0], 1e-9)
	assert.InDelta(t, 0, got.Translation[1], 1e-9)
	assert.InDelta(t, 0, got.Translation[2], 1e-9)
	for i := range got.Scale {
		assert.InDelta(t, 2, got.Scale[i], 1e-9)
	}
}

func TestSampleParentRelative(t *testing.T) {
	sc := testScene(t)

	got, err := Sample(sc, "satellite", true)
	require.NoError(t, err)

	// Relative to the parent the child is back to its plain local transform.
	assert.InDelta(t, 0, got.Translation[0], 1e-9)
	assert.InDelta(t, 0, got.Translation[1], 1e-9)
	assert.InDelta(t, 10, got.Translation[2], 1e-9)
	for i := range got.Scale {
		assert.InDelta(t, 1, got.Scale[i], 1e-9)
	}
	id := mathx.Mat3Identity()
	for i := range id {
		assert.InDelta(t, id[i], got.Rotation[i], 1e-9)
	}
}

// Parent-relative sampling of a parentless object equals world sampling.
func TestSampleParentRelativeNoParent(t *testing.T) {
	sc := testScene(t)

	world, err := Sample(sc, "loner", false)
	require.NoError(t, err)
	relative, err := Sample(sc, "loner", true)
	require.NoError(t, err)

	assert.Equal(t, world, relative)
	assert.Equal(t, mathx.Vec3{1, 2, 3}, world.Translation)

	wantRot := mathx.RotX(0.5)
	for i := range wantRot {
		assert.InDelta(t, wantRot[i], world.Rotation[i], 1e-12)
	}
}

func TestSampleMissingObject(t *testing.T) {
	sc := testScene(t)

	_, err := Sample(sc, "ghost", false)
	assert.ErrorIs(t, err, scene.ErrObjectNotFound)

	_, err = Sample(sc, "ghost", true)
	assert.ErrorIs(t, err, scene.ErrObjectNotFound)
}

func TestSampleRotationSurvivesScale(t *testing.T) {
	doc, err := scene.ParseDocument([]byte(`{"objects":[{
		"name": "box",
		"rotation": [0, 0, 0.7853981633974483],
		"scale": [3, 0.5, 1]
	}]}`))
	require.NoError(t, err)

	got, err := Sample(doc, "box", false)
	require.NoError(t, err)

	want := mathx.RotZ(math.Pi / 4)
	for i := range want {
		assert.InDelta(t, want[i], got.Rotation[i], 1e-9)
	}
	assert.InDelta(t, 3, got.Scale[0], 1e-9)
	assert.InDelta(t, 0.5, got.Scale[1], 1e-9)
	assert.InDelta(t, 1, got.Scale[2], 1e-9)
}
