package extension

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func textComponent(text string) Component {
	return ComponentFunc(func(int) string { return text })
}

func contributionIDs(list []Contribution) []string {
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestRegisterSortsByOrderAscending(t *testing.T) {
	store := NewStore()

	store.Register("dashboard.header", textComponent("five"), "p", Options{ID: "five", Order: 5})
	store.Register("dashboard.header", textComponent("one"), "p", Options{ID: "one", Order: 1})
	store.Register("dashboard.header", textComponent("three"), "p", Options{ID: "three", Order: 3})

	require.Equal(t, []string{"one", "three", "five"}, contributionIDs(store.Get("dashboard.header")))
}

func TestEqualOrdersKeepRegistrationOrder(t *testing.T) {
	store := NewStore()

	store.Register("point", textComponent("a"), "p", Options{ID: "a"})
	store.Register("point", textComponent("b"), "p", Options{ID: "b"})
	store.Register("point", textComponent("c"), "p", Options{ID: "c", Order: -1})

	require.Equal(t, []string{"c", "a", "b"}, contributionIDs(store.Get("point")))
}

func TestGetUnknownPointIsEmpty(t *testing.T) {
	store := NewStore()
	require.Empty(t, store.Get("nobody.asked"))
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	store := NewStore()

	first := store.Register("point", textComponent("x"), "p", Options{})
	second := store.Register("point", textComponent("y"), "p", Options{})

	require.NotEmpty(t, first.ID)
	require.NotEmpty(t, second.ID)
	require.NotEqual(t, first.ID, second.ID)
}

func TestRemoveByPluginSpansAllPoints(t *testing.T) {
	store := NewStore()

	store.Register("header", textComponent("k1"), "keeper", Options{ID: "k1", Order: 1})
	store.Register("header", textComponent("g1"), "goner", Options{ID: "g1", Order: 2})
	store.Register("header", textComponent("k2"), "keeper", Options{ID: "k2", Order: 3})
	store.Register("footer", textComponent("g2"), "goner", Options{ID: "g2"})

	store.RemoveByPlugin("goner")

	require.Equal(t, []string{"k1", "k2"}, contributionIDs(store.Get("header")))
	require.Empty(t, store.Get("footer"))
	require.Equal(t, []string{"header"}, store.Points())
}

func TestRemoveByPluginLeavesOthersUntouched(t *testing.T) {
	store := NewStore()
	for i := 0; i < 4; i++ {
		store.Register("main", textComponent("x"), "stable", Options{ID: fmt.Sprintf("s%d", i)})
	}

	store.RemoveByPlugin("absent")
	require.Equal(t, []string{"s0", "s1", "s2", "s3"}, contributionIDs(store.Get("main")))
}

func TestSubscribeNotifiesOnMutation(t *testing.T) {
	store := NewStore()

	var events []string
	unsubscribe := store.Subscribe(func(point string) { events = append(events, point) })

	store.Register("header", textComponent("a"), "p", Options{})
	store.RemoveByPlugin("p")
	require.Equal(t, []string{"header", "header"}, events)

	unsubscribe()
	store.Register("header", textComponent("b"), "p", Options{})
	require.Len(t, events, 2)
}

func TestGetReturnsACopy(t *testing.T) {
	store := NewStore()
	store.Register("point", textComponent("a"), "p", Options{ID: "a"})

	list := store.Get("point")
	list[0].ID = "mutated"

	require.Equal(t, []string{"a"}, contributionIDs(store.Get("point")))
}

func TestComponentFuncRenders(t *testing.T) {
	c := ComponentFunc(func(width int) string { return fmt.Sprintf("w=%d", width) })
	require.Equal(t, "w=42", c.Render(42))
}
