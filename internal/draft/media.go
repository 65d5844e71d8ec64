package draft

import (
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/model"
)

// AddMedia appends an image or video. Unknown kinds and empty sources are
// ignored and yield "".
func (d *Draft) AddMedia(kind model.MediaKind, source string) string {
	source = strings.TrimSpace(source)
	if source == "" || (kind != model.MediaImage && kind != model.MediaVideo) {
		return ""
	}
	var id string
	d.edit(func() {
		id = d.newID()
		d.media = append(d.media, model.MediaItem{ID: id, Kind: kind, Source: source})
	})
	return id
}

// SetMainImage flags the target as main and clears the flag everywhere else.
// Unknown ids and videos leave the media untouched; only images can be the
// cover.
func (d *Draft) SetMainImage(id string) {
	d.edit(func() {
		idx := d.mediaIndex(id)
		if idx < 0 || d.media[idx].Kind != model.MediaImage {
			return
		}
		for i := range d.media {
			d.media[i].IsMain = d.media[i].ID == id
		}
	})
}

// RemoveMediaItem drops a media item. Removing the main item promotes nothing
// under MainImageManual.
func (d *Draft) RemoveMediaItem(id string) {
	d.edit(func() {
		idx := d.mediaIndex(id)
		if idx < 0 {
			return
		}
		wasMain := d.media[idx].IsMain
		d.media = append(d.media[:idx], d.media[idx+1:]...)
		if !wasMain || d.policy != MainImagePromoteFirst {
			return
		}
		for i := range d.media {
			if d.media[i].Kind == model.MediaImage {
				d.media[i].IsMain = true
				return
			}
		}
	})
}

func (d *Draft) MainImage() (model.MediaItem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range d.media {
		if m.IsMain {
			return m, true
		}
	}
	return model.MediaItem{}, false
}

func (d *Draft) Media() []model.MediaItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mediaItems()
}

func (d *Draft) mediaItems() []model.MediaItem {
	out := make([]model.MediaItem, len(d.media))
	copy(out, d.media)
	return out
}

func (d *Draft) mediaIndex(id string) int {
	for i, m := range d.media {
		if m.ID == id {
			return i
		}
	}
	return -1
}
