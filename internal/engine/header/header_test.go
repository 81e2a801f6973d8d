package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rshade/resinhook/internal/engine/header"
)

func infoPhoneTree() []header.Node {
	return []header.Node{
		{Label: "Info", Children: []header.Node{
			{Label: "Name", Key: "name"},
			{Label: "Age", Key: "age"},
		}},
		{Label: "Phone", Key: "phone"},
	}
}

func TestBuildPlan_TwoLevels(t *testing.T) {
	nodes := infoPhoneTree()

	assert.Equal(t, 2, header.Depth(nodes))
	assert.Equal(t, 2, header.LeafSpan(nodes[0]))
	assert.Equal(t, 1, header.LeafSpan(nodes[1]))

	plan, err := header.BuildPlan(nodes)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "phone"}, plan.DataKeys)
	assert.Equal(t, []string{"Name", "Age", "Phone"}, plan.Labels)
	require.Equal(t, 2, plan.Depth())
	assert.Equal(t, []string{"Info", "", "Phone"}, plan.Rows[0])
	assert.Equal(t, []string{"Name", "Age", ""}, plan.Rows[1])
	assert.Equal(t, []header.Rect{{Row: 0, StartCol: 0, EndCol: 1}}, plan.Merges)
}

func TestBuildPlan_ThreeLevels(t *testing.T) {
	nodes := []header.Node{
		{Label: "ID", Key: "id"},
		{Label: "Account", Children: []header.Node{
			{Label: "Owner", Children: []header.Node{
				{Label: "First", Key: "first"},
				{Label: "Last", Key: "last"},
			}},
			{Label: "Balance", Key: "balance"},
		}},
	}

	plan, err := header.BuildPlan(nodes)
	require.NoError(t, err)

	assert.Equal(t, 3, plan.Depth())
	assert.Equal(t, 4, plan.Width())
	assert.Equal(t, []string{"ID", "Account", "", ""}, plan.Rows[0])
	assert.Equal(t, []string{"", "Owner", "", "Balance"}, plan.Rows[1])
	assert.Equal(t, []string{"", "First", "Last", ""}, plan.Rows[2])
	assert.Equal(t, []header.Rect{
		{Row: 0, StartCol: 1, EndCol: 3},
		{Row: 1, StartCol: 1, EndCol: 2},
	}, plan.Merges)
	for _, row := range plan.Rows {
		assert.Len(t, row, plan.Width())
	}
}

func TestDepth_Minimum(t *testing.T) {
	assert.Equal(t, 1, header.Depth(nil))
	assert.Equal(t, 1, header.Depth([]header.Node{{Label: "A", Key: "a"}}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		nodes []header.Node
	}{
		{name: "empty forest", nodes: nil},
		{name: "leaf without key", nodes: []header.Node{{Label: "A"}}},
		{name: "nested leaf without key", nodes: []header.Node{
			{Label: "G", Children: []header.Node{{Label: "x", Key: "x"}, {Label: "y"}}},
		}},
		{name: "duplicate key", nodes: []header.Node{{Label: "A", Key: "a"}, {Label: "B", Key: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := header.BuildPlan(tt.nodes)
			require.ErrorIs(t, err, header.ErrInvalidHeader)
		})
	}

	assert.NoError(t, header.Validate(infoPhoneTree()))
}

func TestFlatPlan(t *testing.T) {
	plan := header.FlatPlan([]header.Column{{Key: "a", Label: "A"}, {Key: "b", Label: "B"}})

	assert.Equal(t, [][]string{{"A", "B"}}, plan.Rows)
	assert.Equal(t, []string{"a", "b"}, plan.DataKeys)
	assert.Empty(t, plan.Merges)
	assert.Equal(t, []header.Column{{Key: "a", Label: "A"}, {Key: "b", Label: "B"}}, plan.Columns())
}

func TestNode_YAML(t *testing.T) {
	src := `
- label: Info
  children:
    - label: Name
      key: name
    - label: Age
      key: age
- label: Phone
  key: phone
`
	var nodes []header.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &nodes))
	assert.Equal(t, infoPhoneTree(), nodes)
}
