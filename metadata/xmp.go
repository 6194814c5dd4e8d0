package metadata

// XmpData is a Dublin-Core-flavored descriptive metadata sidecar.
type XmpData struct {
	Title        *string
	Description  *string
	Creator      []string
	Subject      []string
	Rights       *string
	Rating       *uint8 // clamped to 0..5
	Label        *string
	Marked       *bool
	CreateDate   *string
	ModifyDate   *string
	CreatorTool  *string
	Custom       map[string]string
}

// NewXmpData returns an empty record.
func NewXmpData() XmpData {
	return XmpData{Custom: make(map[string]string)}
}

func strPtr(s string) *string { return &s }

func (d *XmpData) SetTitle(title string)             { d.Title = strPtr(title) }
func (d *XmpData) SetDescription(description string) { d.Description = strPtr(description) }
func (d *XmpData) AddCreator(creator string)          { d.Creator = append(d.Creator, creator) }
func (d *XmpData) AddSubject(subject string)          { d.Subject = append(d.Subject, subject) }
func (d *XmpData) SetRights(rights string)            { d.Rights = strPtr(rights) }

func (d *XmpData) SetRating(rating uint8) {
	if rating > 5 {
		rating = 5
	}
	d.Rating = &rating
}

func (d *XmpData) SetCustom(key, value string) {
	if d.Custom == nil {
		d.Custom = make(map[string]string)
	}
	d.Custom[key] = value
}

func (d XmpData) GetCustom(key string) (string, bool) {
	v, ok := d.Custom[key]
	return v, ok
}

// MarshalBinary encodes the record as an opaque chunk payload.
func (d XmpData) MarshalBinary() ([]byte, error) {
	w := &writer{}
	w.optStr(d.Title)
	w.optStr(d.Description)
	w.u32(uint32(len(d.Creator)))
	for _, c := range d.Creator {
		w.str(c)
	}
	w.u32(uint32(len(d.Subject)))
	for _, s := range d.Subject {
		w.str(s)
	}
	w.optStr(d.Rights)
	w.bool(d.Rating != nil)
	if d.Rating != nil {
		w.u8(*d.Rating)
	}
	w.optStr(d.Label)
	w.bool(d.Marked != nil)
	if d.Marked != nil {
		w.bool(*d.Marked)
	}
	w.optStr(d.CreateDate)
	w.optStr(d.ModifyDate)
	w.optStr(d.CreatorTool)
	w.u32(uint32(len(d.Custom)))
	for k, v := range d.Custom {
		w.str(k)
		w.str(v)
	}
	return w.buf, nil
}

// UnmarshalBinary decodes a payload produced by MarshalBinary.
func (d *XmpData) UnmarshalBinary(data []byte) error {
	r := newReader(data)
	var out XmpData
	var err error

	if out.Title, err = r.optStr(); err != nil {
		return err
	}
	if out.Description, err = r.optStr(); err != nil {
		return err
	}

	n, err := r.u32()
	if err != nil {
		return err
	}
	out.Creator = make([]string, n)
	for i := range out.Creator {
		if out.Creator[i], err = r.str(); err != nil {
			return err
		}
	}

	n, err = r.u32()
	if err != nil {
		return err
	}
	out.Subject = make([]string, n)
	for i := range out.Subject {
		if out.Subject[i], err = r.str(); err != nil {
			return err
		}
	}

	if out.Rights, err = r.optStr(); err != nil {
		return err
	}

	hasRating, err := r.boolean()
	if err != nil {
		return err
	}
	if hasRating {
		rating, err := r.u8()
		if err != nil {
			return err
		}
		out.Rating = &rating
	}

	if out.Label, err = r.optStr(); err != nil {
		return err
	}

	hasMarked, err := r.boolean()
	if err != nil {
		return err
	}
	if hasMarked {
		marked, err := r.boolean()
		if err != nil {
			return err
		}
		out.Marked = &marked
	}

	if out.CreateDate, err = r.optStr(); err != nil {
		return err
	}
	if out.ModifyDate, err = r.optStr(); err != nil {
		return err
	}
	if out.CreatorTool, err = r.optStr(); err != nil {
		return err
	}

	n, err = r.u32()
	if err != nil {
		return err
	}
	out.Custom = make(map[string]string, n)
	for i := uint32(0); i < n; i++ {
		k, err := r.str()
		if err != nil {
			return err
		}
		v, err := r.str()
		if err != nil {
			return err
		}
		out.Custom[k] = v
	}

	*d = out
	return nil
}

// XmpBuilder fluently assembles an XmpData.
type XmpBuilder struct {
	data XmpData
}

// NewXmpBuilder starts a builder over an empty record.
func NewXmpBuilder() *XmpBuilder {
	return &XmpBuilder{data: NewXmpData()}
}

func (b *XmpBuilder) Title(title string) *XmpBuilder {
	b.data.Title = strPtr(title)
	return b
}

func (b *XmpBuilder) Description(description string) *XmpBuilder {
	b.data.Description = strPtr(description)
	return b
}

func (b *XmpBuilder) Creator(creator string) *XmpBuilder {
	b.data.Creator = append(b.data.Creator, creator)
	return b
}

func (b *XmpBuilder) Creators(creators ...string) *XmpBuilder {
	b.data.Creator = append(b.data.Creator, creators...)
	return b
}

func (b *XmpBuilder) Subject(subject string) *XmpBuilder {
	b.data.Subject = append(b.data.Subject, subject)
	return b
}

func (b *XmpBuilder) Subjects(subjects ...string) *XmpBuilder {
	b.data.Subject = append(b.data.Subject, subjects...)
	return b
}

func (b *XmpBuilder) Rights(rights string) *XmpBuilder {
	b.data.Rights = strPtr(rights)
	return b
}

func (b *XmpBuilder) Rating(rating uint8) *XmpBuilder {
	b.data.SetRating(rating)
	return b
}

func (b *XmpBuilder) Label(label string) *XmpBuilder {
	b.data.Label = strPtr(label)
	return b
}

func (b *XmpBuilder) Marked(marked bool) *XmpBuilder {
	b.data.Marked = &marked
	return b
}

func (b *XmpBuilder) CreateDate(date string) *XmpBuilder {
	b.data.CreateDate = strPtr(date)
	return b
}

func (b *XmpBuilder) ModifyDate(date string) *XmpBuilder {
	b.data.ModifyDate = strPtr(date)
	return b
}

func (b *XmpBuilder) CreatorTool(tool string) *XmpBuilder {
	b.data.CreatorTool = strPtr(tool)
	return b
}

func (b *XmpBuilder) Custom(key, value string) *XmpBuilder {
	b.data.SetCustom(key, value)
	return b
}

// Build returns the assembled record.
func (b *XmpBuilder) Build() XmpData { return b.data }
