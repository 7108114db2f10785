package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/qepting91/bydit/internal/domain"
)

// EmptyNotice is printed instead of the table when the caller asks for it.
const EmptyNotice = "No items to output after filtering."

var lineEndings = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\n`, `"`, `""`)

// EscapeConsoleField flattens line endings to a literal backslash-n and doubles
// double quotes. Console rows are assembled by hand, so this replaces the
// quoting a CSV writer would do.
func EscapeConsoleField(s string) string {
	return lineEndings.Replace(s)
}

// PrintConsole renders items in the CSV column layout. Nothing is printed for
// an empty slice unless placeholder is set.
func PrintConsole(w io.Writer, items []domain.UnifiedItem, placeholder bool) error {
	if len(items) == 0 {
		if placeholder {
			_, err := fmt.Fprintln(w, EmptyNotice)
			return err
		}
		return nil
	}
	if _, err := fmt.Fprintln(w, strings.Join(Header, ",")); err != nil {
		return err
	}
	for _, it := range items {
		_, err := fmt.Fprintf(w, "\"%s\",\"%s\",\"%s\",\"%s\",%d,%d,\"%s%s\",%s\n",
			it.Type,
			subredditLabel(it.Subreddit),
			EscapeConsoleField(it.Title),
			EscapeConsoleField(it.Content),
			it.Upvotes,
			it.NumComments,
			SiteOrigin, it.Permalink,
			formatTimestamp(it.CreatedUTC),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
