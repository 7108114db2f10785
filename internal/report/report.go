package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/qepting91/bydit/internal/domain"
)

const noSubreddit = "(none)"

// Render writes an HTML page charting the result set: items per subreddit,
// activity per month by type, and total score per subreddit.
func Render(w io.Writer, items []domain.UnifiedItem, title string) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		subredditPie(items),
		activityBar(items),
		scoreBar(items),
	)
	return page.Render(w)
}

// WriteFile renders the report to path.
func WriteFile(path string, items []domain.UnifiedItem, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	if err := Render(f, items, title); err != nil {
		f.Close()
		return fmt.Errorf("render report %s: %w", path, err)
	}
	return f.Close()
}

func subredditPie(items []domain.UnifiedItem) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Subreddit Dominance"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	counts := make(map[string]int)
	for _, it := range items {
		counts[subredditKey(it)]++
	}
	var data []opts.PieData
	for _, k := range sortedKeys(counts) {
		data = append(data, opts.PieData{Name: k, Value: counts[k]})
	}
	pie.AddSeries("Items", data)
	return pie
}

func activityBar(items []domain.UnifiedItem) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Activity by Month"}))

	posts := make(map[string]int)
	comments := make(map[string]int)
	months := make(map[string]int)
	for _, it := range items {
		m := time.Unix(int64(it.CreatedUTC), 0).UTC().Format("2006-01")
		months[m]++
		if it.Type == domain.ItemPost {
			posts[m]++
		} else {
			comments[m]++
		}
	}

	x := sortedKeys(months)
	var postData, commentData []opts.BarData
	for _, m := range x {
		postData = append(postData, opts.BarData{Value: posts[m]})
		commentData = append(commentData, opts.BarData{Value: comments[m]})
	}
	bar.SetXAxis(x).
		AddSeries(domain.ItemPost.String(), postData).
		AddSeries(domain.ItemComment.String(), commentData)
	return bar
}

func scoreBar(items []domain.UnifiedItem) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Score by Subreddit"}))

	scores := make(map[string]int)
	for _, it := range items {
		scores[subredditKey(it)] += it.Upvotes
	}
	x := sortedKeys(scores)
	var data []opts.BarData
	for _, k := range x {
		data = append(data, opts.BarData{Value: scores[k]})
	}
	bar.SetXAxis(x).AddSeries("Upvotes", data)
	return bar
}

func subredditKey(it domain.UnifiedItem) string {
	if it.Subreddit == "" {
		return noSubreddit
	}
	return "r/" + it.Subreddit
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
