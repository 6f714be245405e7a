package mystore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type order struct {
	UID       string
	IntentRef string `datastore:"payment_intent"`
	CreatedAt time.Time
	Total     int64
}

var (
	orderOld = order{UID: "123", IntentRef: "pi_1", CreatedAt: time.Date(2023, 2, 27, 12, 0, 0, 0, time.UTC), Total: 100}
	orderNew = order{UID: "456", IntentRef: "pi_1", CreatedAt: time.Date(2023, 2, 27, 13, 0, 0, 0, time.UTC), Total: 200}
	orderFoo = order{UID: "789", IntentRef: "pi_2", CreatedAt: time.Date(2023, 2, 27, 14, 0, 0, 0, time.UTC), Total: 300}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	st, cleanup, err := newInMemoryStore[order](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := st.Get(c, orderOld.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = st.Put(c, orderOld.UID, orderOld)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		o, found, err := st.Get(c, orderOld.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, orderOld, o)
	})

	t.Run("List", func(t *testing.T) {
		all, err := st.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []order{orderOld}, all)
	})
}

func TestQuery(t *testing.T) {
	c := context.TODO()
	st, cleanup, err := newInMemoryStore[order](c)
	assert.NoError(t, err)
	defer cleanup()

	_ = st.Put(c, orderOld.UID, orderOld)
	_ = st.Put(c, orderNew.UID, orderNew)
	_ = st.Put(c, orderFoo.UID, orderFoo)

	t.Run("Filter on tagged field", func(t *testing.T) {
		got, err := st.Query(c, []Filter{{Field: "payment_intent", Compare: "=", Value: "pi_2"}}, "")
		assert.NoError(t, err)
		assert.Equal(t, []order{orderFoo}, got)
	})

	t.Run("Filter with no match", func(t *testing.T) {
		got, err := st.Query(c, []Filter{{Field: "payment_intent", Compare: "=", Value: "pi_unknown"}}, "")
		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Order ascending", func(t *testing.T) {
		got, err := st.Query(c, []Filter{{Field: "payment_intent", Compare: "=", Value: "pi_1"}}, "CreatedAt")
		assert.NoError(t, err)
		assert.Equal(t, []order{orderOld, orderNew}, got)
	})

	t.Run("Order descending", func(t *testing.T) {
		got, err := st.Query(c, []Filter{{Field: "payment_intent", Compare: "=", Value: "pi_1"}}, "-CreatedAt")
		assert.NoError(t, err)
		assert.Equal(t, []order{orderNew, orderOld}, got)
	})

	t.Run("Unknown field", func(t *testing.T) {
		_, err := st.Query(c, []Filter{{Field: "does_not_exist", Compare: "=", Value: "x"}}, "")
		assert.Error(t, err)
	})

	t.Run("Unsupported comparator", func(t *testing.T) {
		_, err := st.Query(c, []Filter{{Field: "payment_intent", Compare: ">", Value: "pi_1"}}, "")
		assert.Error(t, err)
	})
}
