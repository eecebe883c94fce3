package components

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func questions(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("question %d", i)
	}
	return out
}

func TestNewListStartsEmpty(t *testing.T) {
	l := NewList(10)
	assert.Equal(t, 10, l.PageSize)
	assert.Zero(t, l.Cursor)
	assert.Zero(t, l.Offset)
	assert.Nil(t, l.Items)
	assert.Equal(t, -1, l.Selected())
	assert.Nil(t, l.Visible())

	assert.Equal(t, 1, NewList(0).PageSize)
}

func TestListSetItemsResetsPosition(t *testing.T) {
	l := NewList(2)
	l.SetItems(questions(4))
	l.Down()
	l.Down()

	l.SetItems(questions(3))
	assert.Zero(t, l.Cursor)
	assert.Zero(t, l.Offset)
}

func TestListCursorScrollsPage(t *testing.T) {
	l := NewList(3)
	l.SetItems(questions(5))

	steps := []struct {
		move           func()
		cursor, offset int
	}{
		{l.Down, 1, 0},
		{l.Down, 2, 0},
		{l.Down, 3, 1},
		{l.Down, 4, 2},
		{l.Down, 4, 2},
		{l.Up, 3, 2},
		{l.Up, 2, 2},
		{l.Up, 1, 1},
		{l.Up, 0, 0},
		{l.Up, 0, 0},
	}
	for i, s := range steps {
		s.move()
		assert.Equal(t, s.cursor, l.Cursor, "step %d cursor", i)
		assert.Equal(t, s.offset, l.Offset, "step %d offset", i)
	}
}

func TestListVisibleWindow(t *testing.T) {
	l := NewList(3)
	l.SetItems(questions(5))
	assert.Equal(t, []string{"question 0", "question 1", "question 2"}, l.Visible())

	l.Offset = 3
	assert.Equal(t, []string{"question 3", "question 4"}, l.Visible())
	assert.Equal(t, 3, l.RelToAbs(0))
	assert.Equal(t, 4, l.RelToAbs(1))

	short := NewList(10)
	short.SetItems(questions(2))
	assert.Len(t, short.Visible(), 2)
}

func TestListSelection(t *testing.T) {
	l := NewList(5)
	l.SetItems(questions(3))
	assert.Equal(t, 0, l.Selected())

	l.Down()
	assert.Equal(t, 1, l.Selected())
	assert.True(t, l.IsSelected(1))
	assert.False(t, l.IsSelected(0))
}

func TestListReplaceItemsKeepsCursor(t *testing.T) {
	l := NewList(2)
	l.SetItems(questions(4))
	l.Down()
	l.Down()

	l.ReplaceItems(questions(5))
	assert.Equal(t, 2, l.Cursor)

	// a delete that shrinks the list pulls the cursor back in range
	l.ReplaceItems(questions(1))
	assert.Zero(t, l.Cursor)
	assert.Zero(t, l.Offset)
	assert.Equal(t, []string{"question 0"}, l.Visible())

	l.ReplaceItems(nil)
	assert.Equal(t, -1, l.Selected())
}

func TestListSetPageSizeKeepsCursorVisible(t *testing.T) {
	l := NewList(5)
	l.SetItems(questions(5))
	for i := 0; i < 4; i++ {
		l.Down()
	}

	l.SetPageSize(2)
	assert.Equal(t, 3, l.Offset)
	assert.Equal(t, []string{"question 3", "question 4"}, l.Visible())
}

func TestListLongScroll(t *testing.T) {
	l := NewList(5)
	l.SetItems(questions(20))
	for i := 0; i < 10; i++ {
		l.Down()
	}

	assert.Equal(t, 10, l.Cursor)
	assert.Equal(t, 6, l.Offset)
	visible := l.Visible()
	assert.Len(t, visible, 5)
	assert.Equal(t, "question 6", visible[0])
}
