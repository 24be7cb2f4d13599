package social

import "strings"

type platformRule struct {
	name    string
	domains []string
}

var platforms = []platformRule{
	{"Instagram", []string{"instagram.com", "instagr.am"}},
	{"TikTok", []string{"tiktok.com"}},
	{"Facebook", []string{"facebook.com", "fb.watch", "fb.com"}},
	{"Twitter", []string{"twitter.com", "x.com"}},
	{"Snapchat", []string{"snapchat.com"}},
	{"Pinterest", []string{"pinterest.com"}},
	{"Vimeo", []string{"vimeo.com"}},
	{"Dailymotion", []string{"dailymotion.com"}},
}

// DetectPlatform names the social platform a URL belongs to.
func DetectPlatform(url string) string {
	if url == "" {
		return "Unknown"
	}
	lower := strings.ToLower(url)
	for _, p := range platforms {
		for _, d := range p.domains {
			if strings.Contains(lower, d) {
				return p.name
			}
		}
	}
	return "Social Media"
}

// IsSocialURL reports whether url is hosted on a supported social platform.
func IsSocialURL(url string) bool {
	if url == "" {
		return false
	}
	return DetectPlatform(url) != "Social Media"
}
