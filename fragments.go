package cad

import (
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/zooyer/cad/entities"
)

// idAttempts 生成不冲突 id 的最大尝试次数
const idAttempts = 100

// RawImport 一次 DXF 导入的结果：LineText 指向具体直线，GlobalText 没有目标
type RawImport struct {
	ID         string       `json:"id"`
	LineText   []TextRecord `json:"lineText"`
	GlobalText []TextRecord `json:"globalText"`
}

// Fragments 管理从同一次导入中拆分出来的图纸片段
type Fragments struct {
	Raw RawImport

	list  []*Data
	newID func() string
}

func NewFragments(raw RawImport) *Fragments {
	return &Fragments{Raw: raw, newID: timeUUID}
}

func timeUUID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		return ""
	}
	return id.String()
}

func (f *Fragments) List() []*Data {
	return f.list
}

func (f *Fragments) Find(id string) *Data {
	for _, d := range f.list {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (f *Fragments) taken(key string) bool {
	return slices.ContainsFunc(f.list, func(d *Data) bool { return d.ID == key || d.Name == key })
}

// generateID 返回与已有片段的 id 和名称都不冲突的 id，尝试耗尽时返回空串
func (f *Fragments) generateID() string {
	for i := 0; i < idAttempts; i++ {
		if id := f.newID(); id != "" && !f.taken(id) {
			return id
		}
	}
	return ""
}

func (f *Fragments) generateName() string {
	for i := 1; ; i++ {
		name := "Cad-" + strconv.Itoa(i)
		if !slices.ContainsFunc(f.list, func(d *Data) bool { return d.Name == name }) {
			return name
		}
	}
}

// Update 补全 id 与名称，重新解析标注，再按 id 替换或追加片段
func (f *Fragments) Update(fragments ...*Data) Report {
	var total Report

	for _, d := range fragments {
		idx := -1
		if d.ID != "" {
			idx = slices.IndexFunc(f.list, func(v *Data) bool { return v.ID == d.ID })
		}
		if d.ID == "" {
			d.ID = f.generateID()
		}
		if d.Name == "" {
			d.Name = f.generateName()
		}
		d.Parent = f.Raw.ID

		es := d.entities()
		es.Dimension = nil
		es.MText = slices.DeleteFunc(es.MText, func(t *entities.MText) bool { return t.Line != "" })

		report := ResolveAnnotations(d, f.Raw.LineText)
		total.Lines += report.Lines
		total.Dimensions += report.Dimensions
		total.MTexts += report.MTexts
		total.Discarded += report.Discarded

		if idx >= 0 {
			f.list[idx] = d
		} else {
			f.list = append(f.list, d)
		}
	}

	return total
}

// Remove 按名称删除片段
func (f *Fragments) Remove(names ...string) []*Data {
	f.list = slices.DeleteFunc(f.list, func(d *Data) bool { return slices.Contains(names, d.Name) })
	return f.list
}
