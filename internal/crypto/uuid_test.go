package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfflineUUID_Fixture(t *testing.T) {
	got := OfflineUUID("Bond_009")
	assert.Equal(t, "299ced23-a208-3ef3-99e3-206968219434", got.String())
}
