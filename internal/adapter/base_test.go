package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sutter-pierre/dialog-integrations/internal/frame"
	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

func TestBaseCarriesConstructorConfiguration(t *testing.T) {
	schema := frame.Schema{{Name: "id", Type: frame.String, Nullable: false}}
	base := NewBase("brest", false, schema)

	assert.Equal(t, "brest", base.Organization())
	assert.False(t, base.Draft())
	assert.Equal(t, schema, base.RawDataSchema())
	assert.Equal(t, model.StatusPublished, base.Status())
}

func TestBaseDraftMapsToDraftStatus(t *testing.T) {
	base := NewBase("sarthe", true, nil)

	assert.Equal(t, model.StatusDraft, base.Status())
}

func TestBasePreprocessIsIdentity(t *testing.T) {
	base := NewBase("sarthe", true, nil)
	f := frame.New("a")
	f.Append(frame.Row{"a": "1"})

	out, err := base.PreprocessRawData(f)

	require.NoError(t, err)
	assert.Same(t, f, out)
}
