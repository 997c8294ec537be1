package shoplcon

type testElement struct {
	tag    string
	attrs  map[string]string
	parent *testElement
}

// elem returns an element with attributes given as alternating names and values.
func elem(tag string, attrs ...string) *testElement {
	el := &testElement{tag: tag, attrs: map[string]string{}}
	for i := 0; i+1 < len(attrs); i += 2 {
		el.attrs[attrs[i]] = attrs[i+1]
	}
	return el
}

func (el *testElement) Tag() string {
	return el.tag
}

func (el *testElement) Attr(name string) (string, bool) {
	v, ok := el.attrs[name]
	return v, ok
}

func (el *testElement) Parent() (Element, bool) {
	if el.parent == nil {
		return nil, false
	}
	return el.parent, true
}
