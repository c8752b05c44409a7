package cutlist

import (
	"math"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// SparePercent is the share of extra sheets bought on top of the sheets a
// cut plan uses, to cover recuts and damaged boards.
const SparePercent = 10.0

// PurchaseLine is what to buy of one kind of stock sheet.
type PurchaseLine struct {
	Label         string  `json:"label"`
	Width         float64 `json:"width"`  // mm
	Height        float64 `json:"height"` // mm
	Thickness     float64 `json:"thickness,omitempty"`
	SheetsUsed    int     `json:"sheets_used"`
	Spare         int     `json:"spare"`
	SheetsToBuy   int     `json:"sheets_to_buy"`
	Efficiency    float64 `json:"efficiency"` // % of the used sheets covered by boards
	PricePerSheet float64 `json:"price_per_sheet,omitempty"`
	Cost          float64 `json:"cost"`
}

// PurchaseList is the shopping list for a cut plan.
type PurchaseList struct {
	Lines        []PurchaseLine `json:"lines"`
	SparePercent float64        `json:"spare_percent"`
	SheetsToBuy  int            `json:"sheets_to_buy"`
	Cost         float64        `json:"cost"`
	BoardArea    float64        `json:"board_area"` // m², placed boards only
	Unplaced     int            `json:"unplaced"`
}

type stockKind struct {
	label                    string
	width, height, thickness float64
}

// Purchase groups the sheets of plan by stock kind, in the order they are
// first used, and adds spare sheets per kind.
func Purchase(plan model.CutPlan, sparePercent float64) PurchaseList {
	list := PurchaseList{SparePercent: sparePercent, Unplaced: len(plan.Unplaced)}
	index := map[stockKind]int{}
	used := map[stockKind]float64{}

	for _, sheet := range plan.Sheets {
		st := sheet.Stock
		k := stockKind{st.Label, st.Width, st.Height, st.Thickness}
		i, ok := index[k]
		if !ok {
			i = len(list.Lines)
			index[k] = i
			list.Lines = append(list.Lines, PurchaseLine{
				Label:         st.Label,
				Width:         st.Width,
				Height:        st.Height,
				Thickness:     st.Thickness,
				PricePerSheet: st.PricePerSheet,
			})
		}
		list.Lines[i].SheetsUsed++
		used[k] += sheet.UsedArea()
		list.BoardArea += sheet.UsedArea() / 1e6
	}

	for k, i := range index {
		l := &list.Lines[i]
		if area := float64(l.SheetsUsed) * l.Width * l.Height; area > 0 {
			l.Efficiency = used[k] / area * 100
		}
		l.Spare = int(math.Ceil(float64(l.SheetsUsed) * sparePercent / 100))
		l.SheetsToBuy = l.SheetsUsed + l.Spare
		l.Cost = float64(l.SheetsToBuy) * l.PricePerSheet
	}
	for _, l := range list.Lines {
		list.SheetsToBuy += l.SheetsToBuy
		list.Cost += l.Cost
	}
	return list
}
