package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/ecs"
	"github.com/plus3/sampleviewer/samples"
)

// InstanceRow is one lattice instance as listed by the browser.
type InstanceRow struct {
	Cell     int
	Model    string
	Material string
	Mesh     uint32
	Position [3]float32
}

// InstanceRows lists every instance record in storage, naming assets through
// catalog. Rows come back in cell order.
func InstanceRows(storage *ecs.Storage, catalog *asset.Catalog) []InstanceRow {
	q := ecs.NewQuery[struct{ *samples.Instance }](storage)
	q.Execute()

	name := func(id asset.Id) string {
		if !id.IsValid() {
			return "-"
		}
		if info, ok := catalog.GetAssetInfoById(id); ok {
			return info.RelativePath
		}
		return id.String()
	}

	rows := make([]InstanceRow, 0, q.Count())
	for item := range q.Values() {
		inst := item.Instance
		rows = append(rows, InstanceRow{
			Cell:     inst.Cell,
			Model:    name(inst.Model),
			Material: name(inst.Material),
			Mesh:     uint32(inst.Mesh),
			Position: inst.Transform.Translation,
		})
	}
	sortRows(rows, 0, true)
	return rows
}

func sortRows(rows []InstanceRow, column int, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less bool
		switch column {
		case 1:
			less = a.Model < b.Model
		case 2:
			less = a.Material < b.Material
		case 3:
			less = a.Mesh < b.Mesh
		default:
			less = a.Cell < b.Cell
		}
		if !ascending {
			return !less
		}
		return less
	})
}

// FilterRows keeps rows whose cell, model or material contains text.
func FilterRows(rows []InstanceRow, text string) []InstanceRow {
	if text == "" {
		return rows
	}
	text = strings.ToLower(text)
	out := make([]InstanceRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(fmt.Sprint(r.Cell), text) ||
			strings.Contains(r.Model, text) ||
			strings.Contains(r.Material, text) {
			out = append(out, r)
		}
	}
	return out
}

// InstanceBrowser lists the active sample's lattice instances.
type InstanceBrowser struct {
	Manager *samples.Manager
	Catalog *asset.Catalog
	PerPage int

	filterText    string
	currentPage   int
	selectedCell  int
	sortColumn    int
	sortAscending bool
}

func NewInstanceBrowser(m *samples.Manager, catalog *asset.Catalog, perPage int) *InstanceBrowser {
	return &InstanceBrowser{Manager: m, Catalog: catalog, PerPage: max(1, perPage), selectedCell: -1, sortAscending: true}
}

func (ib *InstanceBrowser) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(360, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(560, 360), imgui.CondOnce)
	if !imgui.BeginV("Instance Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	env := ib.Manager.Env()
	if env == nil {
		imgui.Text("No sample active")
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Search...", &ib.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		ib.filterText = ""
	}

	rows := FilterRows(InstanceRows(env.Storage, ib.Catalog), ib.filterText)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("InstanceTable", 4, tableFlags, imgui.NewVec2(0, 260), 0) {
		imgui.TableSetupColumn("Cell")
		imgui.TableSetupColumn("Model")
		imgui.TableSetupColumn("Material")
		imgui.TableSetupColumn("Mesh")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			ib.sortColumn = int(spec.ColumnIndex())
			ib.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}
		sortRows(rows, ib.sortColumn, ib.sortAscending)

		start := min(ib.currentPage*ib.PerPage, len(rows))
		end := min(start+ib.PerPage, len(rows))
		for _, r := range rows[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprint(r.Cell), ib.selectedCell == r.Cell, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				ib.selectedCell = r.Cell
			}
			imgui.TableNextColumn()
			imgui.Text(r.Model)
			imgui.TableNextColumn()
			imgui.Text(r.Material)
			imgui.TableNextColumn()
			if r.Mesh == 0 {
				imgui.Text("loading")
			} else {
				imgui.Text(fmt.Sprint(r.Mesh))
			}
		}

		imgui.EndTable()
	}

	if len(rows) > ib.PerPage {
		totalPages := (len(rows) + ib.PerPage - 1) / ib.PerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d instances)", ib.currentPage+1, totalPages, len(rows)))
		imgui.SameLine()
		if imgui.Button("Prev") && ib.currentPage > 0 {
			ib.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && ib.currentPage < totalPages-1 {
			ib.currentPage++
		}
	} else {
		ib.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d instances", len(rows)))
	}

	for _, r := range rows {
		if r.Cell == ib.selectedCell {
			imgui.Separator()
			imgui.Text(fmt.Sprintf("Cell %d at (%.1f, %.1f, %.1f)", r.Cell, r.Position[0], r.Position[1], r.Position[2]))
			break
		}
	}

	imgui.End()
}
