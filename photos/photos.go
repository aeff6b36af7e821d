package photos

import (
	"os"
	"regexp"
	"sort"
	"strconv"
)

// Filenames follow a catNpicM.webp convention where N picks one of the
// four gallery categories and M orders photos within it.
var photoPattern = regexp.MustCompile(`(?i)^cat(\d+)pic(\d+)\.webp$`)

type indexedPhoto struct {
	index int
	path  string
}

// ListByCategory reads the photo directory and groups matching files into
// the four fixed categories, each sorted by numeric picture index so
// cat1pic2 follows cat1pic1 rather than cat1pic10.
func ListByCategory(dir string) (map[string][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	gallery := map[string][]string{
		"cat1": {},
		"cat2": {},
		"cat3": {},
		"cat4": {},
	}

	buckets := map[string][]indexedPhoto{}
	for _, entry := range entries {
		m := photoPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		key := "cat" + m[1]
		if _, ok := gallery[key]; !ok {
			continue
		}
		index, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		buckets[key] = append(buckets[key], indexedPhoto{index: index, path: "/photos/" + entry.Name()})
	}

	for key, photos := range buckets {
		sort.Slice(photos, func(i, j int) bool {
			return photos[i].index < photos[j].index
		})
		for _, p := range photos {
			gallery[key] = append(gallery[key], p.path)
		}
	}

	return gallery, nil
}
