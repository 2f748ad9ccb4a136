package widget

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormValidation(t *testing.T) {
	f := newForm()
	require.Equal(t, "Name is required", f.validate())

	f.name.SetValue("Jane")
	require.Equal(t, "Email is required", f.validate())

	f.email.SetValue("jane@example.com")
	require.Equal(t, "Comment cannot be empty", f.validate())

	f.content.SetValue("hello")
	require.Empty(t, f.validate())

	// Whitespace-only values do not count.
	f.content.SetValue("   ")
	require.Equal(t, "Comment cannot be empty", f.validate())
}

func TestFormFocusCycle(t *testing.T) {
	f := newForm()
	require.Equal(t, fieldName, f.focused)

	f.cycle(1)
	require.Equal(t, fieldEmail, f.focused)
	f.cycle(1)
	require.Equal(t, fieldContent, f.focused)
	f.cycle(1)
	require.Equal(t, fieldName, f.focused)

	f.cycle(-1)
	require.Equal(t, fieldContent, f.focused)
}

func TestFormReset(t *testing.T) {
	f := newForm()
	f.name.SetValue("Jane")
	f.email.SetValue("jane@example.com")
	f.content.SetValue("  hello  ")

	name, email, content := f.values()
	require.Equal(t, "Jane", name)
	require.Equal(t, "jane@example.com", email)
	require.Equal(t, "hello", content)

	f.reset()
	name, email, content = f.values()
	require.Empty(t, name)
	require.Empty(t, email)
	require.Empty(t, content)
}
