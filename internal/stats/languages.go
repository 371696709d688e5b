// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stats

import (
	"sort"
	"strings"
)

type languageAggregator struct {
	exclude map[string]struct{}
	order   []string
	byName  map[string]*Language
}

func newLanguageAggregator(exclude map[string]struct{}) *languageAggregator {
	return &languageAggregator{
		exclude: exclude,
		byName:  make(map[string]*Language),
	}
}

func (a *languageAggregator) add(name, color string, size int) {
	if name == "" {
		return
	}
	if _, ok := a.exclude[strings.ToLower(name)]; ok {
		return
	}
	lang, ok := a.byName[name]
	if !ok {
		lang = &Language{Name: name, Color: color}
		a.byName[name] = lang
		a.order = append(a.order, name)
	}
	lang.Size += size
	lang.Occurrences++
	if lang.Color == "" {
		lang.Color = color
	}
}

// languages returns the breakdown sorted by size, largest first, with each
// proportion expressed as a percentage of the total size.
func (a *languageAggregator) languages() []Language {
	total := 0
	for _, l := range a.byName {
		total += l.Size
	}

	out := make([]Language, 0, len(a.order))
	for _, name := range a.order {
		lang := *a.byName[name]
		if total > 0 {
			lang.Proportion = 100 * float64(lang.Size) / float64(total)
		}
		out = append(out, lang)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Size > out[j].Size
	})
	return out
}
