package contentview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirelens/go-sdk/internal/testutil"
	"github.com/wirelens/go-sdk/pkg/contentview"
)

func protoMetadata() *contentview.Metadata {
	return &contentview.Metadata{ContentType: "application/x-protobuf"}
}

func TestProtobufView_Score(t *testing.T) {
	view := contentview.NewProtobufView()
	valid := testutil.AppendVarintField(nil, 1, 7)

	tests := []struct {
		name string
		data []byte
		md   *contentview.Metadata
		want float64
	}{
		{"empty data", nil, protoMetadata(), contentview.ScoreNoMatch},
		{"no content type hint", valid, &contentview.Metadata{ContentType: "text/plain"}, contentview.ScoreNoMatch},
		{"nil metadata", valid, nil, contentview.ScoreNoMatch},
		{"unparseable body", []byte{0xff, 0xff}, protoMetadata(), contentview.ScoreNoMatch},
		{"hinted and parseable", valid, protoMetadata(), 0.7},
		{"grpc proto media type", valid, &contentview.Metadata{ContentType: "application/grpc+proto"}, 0.7},
		{"definitions reference counts as hint", valid, &contentview.Metadata{ProtobufDefinitions: "api.proto"}, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, view.Score(tt.data, tt.md))
		})
	}
}

func TestProtobufView_Render(t *testing.T) {
	data := testutil.AppendVarintField(nil, 1, 7)
	data = testutil.AppendBytesField(data, 2, []byte("hello"))

	out, err := contentview.NewProtobufView().Render(data, protoMetadata())
	require.NoError(t, err)

	assert.Contains(t, out, "field_tag: 1")
	assert.Contains(t, out, "wire_type: varint")
	assert.Contains(t, out, "varint: 7")
	assert.Contains(t, out, "sint: -4")
	assert.Contains(t, out, "field_tag: 2")
	assert.Contains(t, out, "wire_type: len_delimited")
	assert.Contains(t, out, "length: 5")
	assert.Contains(t, out, "utf8: hello")
}

func TestProtobufView_RenderNested(t *testing.T) {
	nested := testutil.AppendVarintField(nil, 3, 150)
	data := testutil.AppendBytesField(nil, 1, nested)

	out, err := contentview.NewProtobufView().Render(data, protoMetadata())
	require.NoError(t, err)

	assert.Contains(t, out, "message:")
	assert.Contains(t, out, "field_tag: 3")
	assert.Contains(t, out, "varint: 150")
}

func TestProtobufView_RenderMalformed(t *testing.T) {
	_, err := contentview.NewProtobufView().Render([]byte{0xff, 0xff}, protoMetadata())
	require.Error(t, err)
	assert.ErrorIs(t, err, contentview.ErrMalformedWireFormat)
}

func TestProtobufView_RenderDefinitionsReference(t *testing.T) {
	data := testutil.AppendVarintField(nil, 1, 1)
	md := &contentview.Metadata{ProtobufDefinitions: "schemas/api.proto"}

	out, err := contentview.NewProtobufView().Render(data, md)
	require.NoError(t, err)
	assert.Contains(t, out, "protobuf_definitions: schemas/api.proto")
}
