package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
)

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Consent, "0.0.1001"))

	topic, err := r.Resolve(Consent)
	require.NoError(t, err)
	assert.Equal(t, Consent, topic.Name)
	assert.Equal(t, model.TopicID("0.0.1001"), topic.ID)
}

func TestRegistryResolveUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNotFound))
}

func TestRegistryRegisterConflict(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Billing, "0.0.2001"))

	// Same pair is idempotent.
	assert.NoError(t, r.Register(Billing, "0.0.2001"))

	// Rebinding to another id is not.
	err := r.Register(Billing, "0.0.9999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeAlreadyExists))
}

func TestRegistryRegisterValidation(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register("", "0.0.1"))
	assert.Error(t, r.Register("consent", ""))
}

func TestRegistryListSorted(t *testing.T) {
	r, err := FromConfig(map[string]string{
		Claims:  "0.0.3001",
		Consent: "0.0.1001",
		Billing: "0.0.2001",
	})
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, Billing, list[0].Name)
	assert.Equal(t, Claims, list[1].Name)
	assert.Equal(t, Consent, list[2].Name)
}
