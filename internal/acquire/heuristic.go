package acquire

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// wireFamily describes how one press-distribution service structures its
// release URLs, so a readable title can be recovered without fetching.
type wireFamily struct {
	name       string
	hosts      []string
	slugOfPath func(path string) string
}

var trailingID = regexp.MustCompile(`[-_]\d{6,}$`)
var releaseExt = regexp.MustCompile(`\.(html?|php|aspx?)$`)

var wireFamilies = []wireFamily{
	{
		// https://www.businesswire.com/news/home/<id>/<lang>/<slug>
		name:  "businesswire",
		hosts: []string{"businesswire.com"},
		slugOfPath: func(path string) string {
			return lastSegment(path)
		},
	},
	{
		// https://www.prnewswire.com/news-releases/<slug>-<id>.html
		name:  "prnewswire",
		hosts: []string{"prnewswire.com", "prweb.com"},
		slugOfPath: func(path string) string {
			// The numeric release ID sits between the slug and the
			// extension, so the extension comes off first.
			seg := releaseExt.ReplaceAllString(lastSegment(path), "")
			return trailingID.ReplaceAllString(seg, "")
		},
	},
	{
		// https://www.globenewswire.com/news-release/<y>/<m>/<d>/<id>/<n>/en/<slug>.html
		name:  "globenewswire",
		hosts: []string{"globenewswire.com"},
		slugOfPath: func(path string) string {
			return lastSegment(path)
		},
	},
	{
		// https://www.accesswire.com/<id>/<slug>
		name:  "accesswire",
		hosts: []string{"accesswire.com", "newswire.com", "einpresswire.com"},
		slugOfPath: func(path string) string {
			return lastSegment(path)
		},
	},
}

// symbolTokens substitutes slug tokens that stand in for symbols the URL
// could not carry literally.
var symbolTokens = strings.NewReplacer(
	"-usd-", " $",
	"-eur-", " €",
	"-gbp-", " £",
	"-pct-", " % ",
)

// heuristicContent derives a pseudo press release from the URL alone. It
// never fails; an empty title means the URL carried nothing usable.
func heuristicContent(rawURL string) (text, title string, recognized bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", false
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))

	slug := ""
	for _, fam := range wireFamilies {
		if !matchesHost(host, fam.hosts) {
			continue
		}
		slug = fam.slugOfPath(u.Path)
		recognized = true
		break
	}
	if slug == "" {
		slug = lastSegment(u.Path)
	}

	title = titleFromSlug(slug)
	if title == "" {
		return "", "", recognized
	}

	text = fmt.Sprintf(
		"%s\n\nThis is a business press release announcing company funding or investment activity. Source: %s",
		title, host)
	return text, title, recognized
}

func matchesHost(host string, candidates []string) bool {
	for _, c := range candidates {
		if host == c || strings.HasSuffix(host, "."+c) {
			return true
		}
	}
	return false
}

func lastSegment(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return ""
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

// titleFromSlug turns a URL slug into a human-readable title: percent
// decoding, symbol token substitution, separators to spaces.
func titleFromSlug(slug string) string {
	if slug == "" {
		return ""
	}
	slug = releaseExt.ReplaceAllString(slug, "")
	if decoded, err := url.PathUnescape(slug); err == nil {
		slug = decoded
	}
	slug = symbolTokens.Replace(slug)
	slug = strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(slug)
	words := strings.Fields(slug)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}
