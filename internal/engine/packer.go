package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/TileAtlas/internal/atlas"
	"github.com/piwi3910/TileAtlas/internal/logging"
	"github.com/piwi3910/TileAtlas/internal/model"
)

var (
	// ErrPageLimit is returned by the page factory once MaxPages pages exist.
	ErrPageLimit = errors.New("engine: page limit reached")

	// ErrNoSprites is returned by Pack when there is nothing to place.
	ErrNoSprites = errors.New("engine: no sprites to pack")
)

// Packer places sprites onto atlas pages.
type Packer struct {
	Settings model.AtlasSettings
}

func New(settings model.AtlasSettings) *Packer {
	return &Packer{Settings: settings}
}

// Pack expands sprite quantities, orders them and places each one on the
// first page the atlas finds room on. Sprites larger than a page, or that
// would need a page beyond MaxPages, are returned in PackResult.Unplaced.
func (p *Packer) Pack(sprites []model.Sprite) (model.PackResult, error) {
	if err := p.Settings.Validate(); err != nil {
		return model.PackResult{}, fmt.Errorf("invalid settings: %w", err)
	}

	expanded := expandSprites(sprites)
	if len(expanded) == 0 {
		return model.PackResult{}, ErrNoSprites
	}
	order, _ := model.ParseSortOrder(string(p.Settings.SortOrder))
	sort.SliceStable(expanded, func(i, j int) bool {
		return order.Less(expanded[i], expanded[j])
	})

	log := logging.WithComponent("engine")
	result, pages, err := p.place(expanded)
	if err != nil {
		return model.PackResult{}, err
	}

	log.WithFields(logrus.Fields{
		"pages":      len(result.Pages),
		"placed":     result.PlacementCount(),
		"unplaced":   len(result.Unplaced),
		"efficiency": fmt.Sprintf("%.1f%%", result.TotalEfficiency()),
	}).Info("packing complete")
	if len(result.Unplaced) > 0 && p.Settings.MaxPages > 0 && pages == p.Settings.MaxPages {
		log.WithField("max_pages", p.Settings.MaxPages).Warn("page limit left sprites unplaced")
	}
	return result, nil
}

// place inserts sprites in the given order and returns the result together
// with the number of pages created.
func (p *Packer) place(sprites []model.Sprite) (model.PackResult, int, error) {
	pw, ph := p.Settings.PageWidth, p.Settings.PageHeight

	a, err := atlas.New[model.PageInfo, model.Sprite](uint16(pw), uint16(ph), p.pageFactory())
	if err != nil {
		return model.PackResult{}, 0, fmt.Errorf("failed to create atlas: %w", err)
	}

	var unplaced []model.Sprite
	for _, s := range sprites {
		if !p.fits(s) {
			logging.WithSprite(s.ID, s.Label).WithFields(logrus.Fields{
				"width":  s.Width,
				"height": s.Height,
			}).Warn("sprite does not fit on a page")
			unplaced = append(unplaced, s)
			continue
		}

		w := min(s.Width+p.Settings.Padding, pw)
		h := min(s.Height+p.Settings.Padding, ph)
		if _, err := a.InsertTile(uint16(w), uint16(h), s); err != nil {
			if errors.Is(err, ErrPageLimit) {
				unplaced = append(unplaced, s)
				continue
			}
			return model.PackResult{}, 0, fmt.Errorf("failed to place sprite %q: %w", s.Label, err)
		}
	}

	result := buildResult(a)
	result.Unplaced = unplaced
	return result, a.PageCount(), nil
}

func (p *Packer) fits(s model.Sprite) bool {
	return s.Width > 0 && s.Height > 0 && s.Width <= p.Settings.PageWidth && s.Height <= p.Settings.PageHeight
}

// Estimate returns an area-based page forecast for the packer's settings.
func (p *Packer) Estimate(sprites []model.Sprite, wastePercent float64) model.PageEstimate {
	return model.CalculatePageEstimate(sprites, p.Settings.PageWidth, p.Settings.PageHeight, p.Settings.Padding, wastePercent)
}

func (p *Packer) pageFactory() atlas.PageFactory[model.PageInfo] {
	created := 0
	return func(w, h uint16) (model.PageInfo, error) {
		if p.Settings.MaxPages > 0 && created >= p.Settings.MaxPages {
			return model.PageInfo{}, ErrPageLimit
		}
		info := model.NewPageInfo(created, int(w), int(h))
		created++
		logging.WithPage(info.Index).WithFields(logrus.Fields{
			"component": "engine",
			"id":        info.ID,
			"width":     w,
			"height":    h,
		}).Debug("page created")
		return info, nil
	}
}

// expandSprites turns each sprite into Quantity single-instance copies.
func expandSprites(sprites []model.Sprite) []model.Sprite {
	var expanded []model.Sprite
	for _, s := range sprites {
		for i := 0; i < s.Quantity; i++ {
			cp := s
			cp.Quantity = 1
			expanded = append(expanded, cp)
		}
	}
	return expanded
}

func buildResult(a *atlas.Atlas[model.PageInfo, model.Sprite]) model.PackResult {
	pw, ph := a.PageSize()
	result := model.PackResult{Pages: make([]model.PageResult, a.PageCount())}
	for i := range result.Pages {
		info, _ := a.Page(i)
		result.Pages[i] = model.PageResult{
			Page:        info,
			FreeRegions: freeRegions(i, a.Rows(i), int(pw), int(ph)),
		}
	}

	for _, t := range a.Tiles() {
		// UVs cover the sprite only, not its padding.
		inner := t
		inner.W = uint16(t.Payload.Width)
		inner.H = uint16(t.Payload.Height)
		pr := &result.Pages[t.Page]
		pr.Placements = append(pr.Placements, model.Placement{
			Sprite: t.Payload,
			X:      int(t.X),
			Y:      int(t.Y),
			Page:   t.Page,
			UV:     inner.UV(pw, ph),
		})
	}
	return result
}

// freeRegions lists the unused rectangles of one page: the space above each
// cell, the tail of each row and the strip below the last row.
func freeRegions(page int, rows []atlas.RowInfo, pw, ph int) []model.FreeRegion {
	var regions []model.FreeRegion
	add := func(x, y, w, h int) {
		if w > 0 && h > 0 {
			regions = append(regions, model.FreeRegion{Page: page, X: x, Y: y, Width: w, Height: h})
		}
	}
	for _, r := range rows {
		end := 0
		for _, c := range r.Cells {
			add(int(c.X), int(r.Y)+int(c.Used), int(c.W), int(r.H)-int(c.Used))
			end = int(c.X) + int(c.W)
		}
		add(end, int(r.Y), pw-end, int(r.H))
	}
	if n := len(rows); n > 0 {
		bottom := int(rows[n-1].Y) + int(rows[n-1].H)
		add(0, bottom, pw, ph-bottom)
	}
	return model.FilterFreeRegions(regions, 1)
}
