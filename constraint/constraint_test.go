package constraint

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Text(t *testing.T) {
	tests := []struct {
		text    string
		want    Response
		wantErr bool
	}{
		{"friction_cone", ResponseFrictionCone, false},
		{"Friction-Cone", ResponseFrictionCone, false},
		{"restitution", ResponseRestitution, false},
		{"", ResponseFrictionCone, false},
		{"penalty", ResponseFrictionCone, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var r Response
			err := r.UnmarshalText([]byte(tt.text))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)

			text, err := r.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, r.String(), string(text))
		})
	}

	assert.Equal(t, "Response(9)", Response(9).String())
}

func TestSkew(t *testing.T) {
	vectors := []mgl64.Vec3{
		{1, 2, 3},
		{-0.5, 4, 0},
		{0, 0, -1},
	}

	for _, v := range vectors {
		for _, u := range vectors {
			assert.True(t, vec3AlmostEqual(skew(v).Mul3x1(u), v.Cross(u), 1e-12), "v=%v u=%v", v, u)
		}
		// Skew-symmetric
		assert.Equal(t, skew(v).Mul(-1), skew(v).Transpose())
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-1, 0, 1))
	assert.Equal(t, 0.25, clamp(0.25, 0, 1))
	assert.Equal(t, 1.0, clamp(7, 0, 1))
}

func TestSolve3(t *testing.T) {
	k := mgl64.Mat3{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	}
	want := mgl64.Vec3{1, -2, 0.5}

	x, ok := solve3(k, k.Mul3x1(want))
	require.True(t, ok)
	assert.True(t, vec3AlmostEqual(x, want, 1e-12), "got %v", x)

	_, ok = solve3(mgl64.Mat3{}, mgl64.Vec3{1, 0, 0})
	assert.False(t, ok)
}
