package models

import "time"

// Fixture is a bundle of records used to seed an empty store
type Fixture struct {
	Category Category
	Group    Group
	Words    []Word
}

// DefaultFixture returns the bundled sample content. CreatedAt is left zero so the
// store stamps it at seeding time.
func DefaultFixture() Fixture {
	return Fixture{
		Category: Category{
			ID:          "cat-1",
			Name:        "Aktivitas Sehari-hari",
			Description: "Belajar kata-kata tentang aktivitas harian anak",
			Icon:        "🎯",
		},
		Group: Group{
			ID:               "group-1",
			CategoryID:       "cat-1",
			Name:             "Bermain & Aktivitas",
			Description:      "Kata-kata tentang bermain dan aktivitas anak",
			FinalRewardText:  "Mobil Lego",
			FinalRewardImage: "/images/lego-car.png",
		},
		Words: []Word{
			{ID: "word-1", GroupID: "group-1", Order: 1, Text: "Anak bermain bola", ImageSrc: "/images/anak_main_bola.png"},
			{ID: "word-2", GroupID: "group-1", Order: 2, Text: "anak-anak main dengan kucing hitam dan putih", ImageSrc: "/images/anak_main_kucing.png"},
			{ID: "word-3", GroupID: "group-1", Order: 3, Text: "anak-anak makan bersama", ImageSrc: "/images/anak_makan.png"},
			{ID: "word-4", GroupID: "group-1", Order: 4, Text: "anak-anak memancing ikan di sungai", ImageSrc: "/images/anak_mancing_ikan.png"},
			{ID: "word-5", GroupID: "group-1", Order: 5, Text: "anak-anak menyebrang dengan hati-hati di jalan raya", ImageSrc: "/images/anak_nyebrang_jalan.png"},
		},
	}
}

// Stamp returns a copy of the fixture with zero CreatedAt values set to now
func (f Fixture) Stamp(now time.Time) Fixture {
	out := f
	if out.Category.CreatedAt.IsZero() {
		out.Category.CreatedAt = now
	}
	if out.Group.CreatedAt.IsZero() {
		out.Group.CreatedAt = now
	}
	out.Words = append([]Word(nil), f.Words...)
	return out
}
