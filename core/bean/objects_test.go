package bean

import (
	"context"
	"errors"
	"fmt"
)

const (
	fooValue = 1459243
	barValue = 1423459243
	bazValue = 63456352
)

type testObject struct {
	foo int
	Bar int
	Baz int
}

func newTestObject() *testObject {
	return &testObject{foo: fooValue, Bar: barValue, Baz: bazValue}
}

func (o *testObject) GetFoo() int { return o.foo }

func (o *testObject) SetFoo(foo int) { o.foo = foo }

func (o *testObject) ResetFoo() { o.foo = 0 }

func (o *testObject) ResetFoo_To(newValue int) { o.foo = newValue } //nolint:revive,stylecheck

func (o *testObject) IsSomething() bool { return true }

func (o *testObject) Is() bool { return false }

func (o *testObject) Get() bool { return false }

func (o *testObject) Set(int) {}

type subClassTestObject struct {
	testObject
	baz int
}

func (o *subClassTestObject) GetBaz() int { return o.baz }

func (o *subClassTestObject) SetBaz(baz int) { o.baz = baz }

type prefixObject struct{}

func (prefixObject) Issue() string { return "issued" }
func (prefixObject) Getaway() int { return 1 }
func (prefixObject) Settle(int) {}
func (prefixObject) Is2FA() bool { return true }
func (prefixObject) IsReady() int { return 1 }
func (prefixObject) GetTwo() (int, int) { return 1, 2 }
func (prefixObject) GetErr() error { return nil }
func (prefixObject) SetPair(int, int) {}
func (prefixObject) SetReturn(int) int { return 0 }
func (prefixObject) SetMany(...int) {}
func (prefixObject) GetWithArg(int) string { return "" }
func (prefixObject) GetChecked() (int, error) { return 7, nil }

type callObject struct {
	calls int
}

func (c *callObject) Ping(ctx context.Context, n int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.calls++
	return n + 1, nil
}

func (c *callObject) Sum(xs ...int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func (c *callObject) Pair() (int, string) { return c.calls, "pair" }

func (c *callObject) Fail() error { return errors.New("failed") }

func (c *callObject) Explode() { panic("boom") }

type taggedObject struct {
	Hits   int
	Limit  int    `mbean:"maxHits,writable"`
	Name   string `mbean:",writable"`
	Secret string `mbean:"-"`
	hidden int
}

type mismatchObject struct {
	level int
}

func (m *mismatchObject) GetLevel() string { return fmt.Sprint(m.level) }
func (m *mismatchObject) SetLevel(v int) { m.level = v }
func (m *mismatchObject) SetMode(string) {}

type dupOperation struct{}

func (dupOperation) Reset() {}
func (dupOperation) Reset_Again() {} //nolint:revive,stylecheck

type dupGetter struct{}

func (dupGetter) GetReady() int { return 0 }
func (dupGetter) IsReady() bool { return false }

type dupSetter struct{}

func (dupSetter) SetMode(int) {}
func (dupSetter) SetMode_Str(string) {} //nolint:revive,stylecheck

type dupFields struct {
	A int `mbean:"x"`
	B int `mbean:"x"`
}

type brokenEmbedding struct {
	dupOperation
}

type left struct{}

func (left) Ping() {}

type right struct{}

func (right) Ping() {}

type ambiguous struct {
	left
	right
}

type shadowing struct {
	left
}

func (shadowing) Ping(int) {}

type withStringer struct {
	fmt.Stringer
}
