package display

import (
	"encoding/json"
	"testing"

	"github.com/bethropolis/richexif/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"table", ModeTable},
		{"TABLE", ModeTable},
		{"Tree", ModeTree},
		{" tree ", ModeTree},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMode_Invalid(t *testing.T) {
	for _, in := range []string{"graph", "", "tables"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseMode(in)
			require.ErrorIs(t, err, ErrInvalidMode)
			assert.Contains(t, err.Error(), "table, tree")
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "table", ModeTable.String())
	assert.Equal(t, "tree", ModeTree.String())
	assert.Equal(t, "Mode(9)", Mode(9).String())
	assert.Equal(t, []string{"table", "tree"}, Modes())
}

func TestBuildTable(t *testing.T) {
	md := metadata.Metadata{
		{Key: "EXIF:Make", Value: "Canon"},
		{Key: "EXIF:Model", Value: "EOS"},
	}

	table := BuildTable(md)

	assert.Equal(t, []string{"Field", "Value"}, table.Header())
	assert.Equal(t, []Row{
		{Field: "EXIF:Make", Value: "Canon"},
		{Field: "EXIF:Model", Value: "EOS"},
	}, table.Rows)
}

func TestBuildTable_OneRowPerEntryInOrder(t *testing.T) {
	md := metadata.Metadata{
		{Key: "Z:z", Value: json.Number("3")},
		{Key: "A:a", Value: []any{"x", "y"}},
		{Key: "Z:z", Value: "dup"},
		{Key: "M", Value: nil},
	}

	table := BuildTable(md)

	require.Len(t, table.Rows, len(md))
	for i, e := range md {
		assert.Equal(t, e.Key, table.Rows[i].Field)
	}
	assert.Equal(t, "[x, y]", table.Rows[1].Value)
	assert.Equal(t, "", table.Rows[3].Value)
}

func TestBuildTable_Empty(t *testing.T) {
	table := BuildTable(nil)

	assert.Empty(t, table.Rows)
	assert.Equal(t, []string{"Field", "Value"}, table.Header())
}

// texts flattens a tree into "depth:text" lines.
func texts(n *Node) []string {
	var out []string
	var walk func(*Node, int)
	walk = func(n *Node, depth int) {
		out = append(out, string(rune('0'+depth))+":"+n.Text())
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return out
}

func TestBuildTree_SingleTwoSegmentKey(t *testing.T) {
	root := BuildTree("/tmp/a.jpg", metadata.Metadata{{Key: "EXIF:Make", Value: "Canon"}})

	assert.Equal(t, KindRoot, root.Kind)
	assert.Equal(t, []string{
		"0:/tmp/a.jpg",
		"1:EXIF",
		"1:Make: Canon",
	}, texts(root))
	assert.Equal(t, KindGroup, root.Children[0].Kind)
	assert.Equal(t, KindField, root.Children[1].Kind)
}

func TestBuildTree_DeepKeysAttachToLatestField(t *testing.T) {
	md := metadata.Metadata{
		{Key: "SourceFile", Value: "/tmp/a.jpg"},
		{Key: "XMP:XMP-x:XMPToolkit", Value: "  Image::ExifTool 12.40 "},
		{Key: "XMP:Rating", Value: json.Number("5")},
		{Key: "XMP:XMP-dc:Subject", Value: []any{"cat"}},
		{Key: "EXIF:Make", Value: "Canon"},
		{Key: "EXIF:Model", Value: "EOS"},
	}

	root := BuildTree("/tmp/a.jpg", md)

	assert.Equal(t, []string{
		"0:/tmp/a.jpg",
		"1:SourceFile",
		"2:/tmp/a.jpg",
		"1:XMP",
		"2:Image::ExifTool 12.40",
		"1:Rating: 5",
		"2:[cat]",
		"1:EXIF",
		"1:Make: Canon",
		"1:Model: EOS",
	}, texts(root))
}

func TestBuildTree_FieldValueNotTrimmed(t *testing.T) {
	root := BuildTree("f", metadata.Metadata{{Key: "File:Comment", Value: " spaced "}})

	assert.Equal(t, " spaced ", root.Children[1].Value)
}

func TestBuildTree_Empty(t *testing.T) {
	root := BuildTree("/tmp/a.jpg", nil)

	assert.Equal(t, []string{"0:/tmp/a.jpg"}, texts(root))
}
