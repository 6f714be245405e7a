package mystore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

type inMemoryStore[T any] struct {
	sync.Mutex
	items map[string]T
}

func newInMemoryStore[T any](c context.Context) (*inMemoryStore[T], func(), error) {
	return &inMemoryStore[T]{
		items: make(map[string]T),
	}, func() {}, nil
}

func (s *inMemoryStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	// Start transaction
	s.Lock()

	ctx := context.WithValue(c, ctxTransactionKey{}, true)

	// Within this block everything is transactional
	err := f(ctx)
	if err != nil {
		// Rollback
		s.Unlock()

		return err
	}

	// Commit
	s.Unlock()

	return nil
}

func (s *inMemoryStore[T]) Put(c context.Context, uid string, value T) error {
	nonTransactional := c.Value(ctxTransactionKey{}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	s.items[uid] = value

	return nil
}

func (s *inMemoryStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	nonTransactional := c.Value(ctxTransactionKey{}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	result, exists := s.items[uid]

	return result, exists, nil
}

func (s *inMemoryStore[T]) List(c context.Context) ([]T, error) {
	nonTransactional := c.Value(ctxTransactionKey{}) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	result := make([]T, 0, len(s.items))
	for _, v := range s.items {
		result = append(result, v)
	}

	return result, nil
}

func (s *inMemoryStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	all, err := s.List(c)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(all))
outer:
	for _, item := range all {
		for _, f := range filters {
			if f.Compare != "=" {
				return nil, fmt.Errorf("unsupported comparator %s on field %s", f.Compare, f.Field)
			}
			value, found := fieldByStoreName(reflect.ValueOf(item), f.Field)
			if !found {
				return nil, fmt.Errorf("unknown field %s in filter", f.Field)
			}
			if !reflect.DeepEqual(value.Interface(), f.Value) {
				continue outer
			}
		}
		result = append(result, item)
	}

	if orderByField != "" {
		err = sortByField(result, orderByField)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// fieldByStoreName resolves a struct field by its datastore property name,
// falling back to the Go field name when no tag is present.
func fieldByStoreName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tagName := strings.Split(f.Tag.Get("datastore"), ",")[0]
		if tagName == name || (tagName == "" && f.Name == name) {
			return v.Field(i), true
		}
	}

	return reflect.Value{}, false
}

func sortByField[T any](items []T, orderByField string) error {
	descending := strings.HasPrefix(orderByField, "-")
	fieldName := strings.TrimPrefix(orderByField, "-")

	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		a, foundA := fieldByStoreName(reflect.ValueOf(items[i]), fieldName)
		b, foundB := fieldByStoreName(reflect.ValueOf(items[j]), fieldName)
		if !foundA || !foundB {
			sortErr = fmt.Errorf("unknown field %s in orderBy", fieldName)
			return false
		}

		less, err := lessThan(a, b)
		if err != nil {
			sortErr = err
			return false
		}

		if descending {
			return !less
		}
		return less
	})

	return sortErr
}

func lessThan(a, b reflect.Value) (bool, error) {
	switch a.Kind() {
	case reflect.String:
		return a.String() < b.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int(), nil
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float(), nil
	case reflect.Struct:
		at, aok := a.Interface().(time.Time)
		bt, bok := b.Interface().(time.Time)
		if aok && bok {
			return at.Before(bt), nil
		}
	}

	return false, fmt.Errorf("cannot order on field of type %s", a.Type())
}
