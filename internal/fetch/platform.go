package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board whose markup we know.
type Platform string

// Known job boards.
const (
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformWorkday         Platform = "workday"
	PlatformAshby           Platform = "ashby"
	PlatformSmartRecruiters Platform = "smartrecruiters"
	PlatformUnknown         Platform = "unknown"
)

// boardProfile is what we know about one job board: the hosts that serve
// it, where the posting body lives and what to strip before extraction.
type boardProfile struct {
	hosts   []string
	content []string
	noise   []string
}

var boards = map[Platform]boardProfile{
	PlatformGreenhouse: {
		hosts: []string{"greenhouse.io"},
		content: []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		},
		noise: []string{
			".application--wrapper",
			".voluntary-self-id",
			".voluntary-self-id-wrapper",
			"#usa_self_id_section",
			".post-apply",
		},
	},
	PlatformLever: {
		hosts: []string{"lever.co"},
		content: []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		},
		noise: []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts: []string{"myworkdayjobs.com", "workday.com"},
		content: []string{
			"[data-automation-id='jobDescription']",
			".job-description",
		},
		noise: []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	PlatformAshby: {
		hosts: []string{"ashbyhq.com"},
		content: []string{
			"[class*='_descriptionText']",
			"[class*='_description']",
			"main",
		},
		noise: []string{"[class*='_applicationForm']", "[class*='_applyButton']"},
	},
	PlatformSmartRecruiters: {
		hosts: []string{"smartrecruiters.com"},
		content: []string{
			"[itemprop='description']",
			".job-sections",
			"main",
		},
		noise: []string{".job-apply", "#st-apply", ".social-share-area"},
	},
}

// sharedNoise is stripped on every board: apply forms, EEO blocks, share
// buttons and consent banners.
var sharedNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".social-links",
	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform maps a URL to its job board. A host matches when it equals
// a board host or is a subdomain of one.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for platform, profile := range boards {
		for _, h := range profile.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns the posting body selectors for a board,
// or the generic JobPostingSelectors.
func PlatformContentSelectors(platform Platform) []string {
	if profile, ok := boards[platform]; ok {
		return profile.content
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns the shared noise selectors plus the
// board's own.
func PlatformNoiseSelectors(platform Platform) []string {
	out := make([]string, 0, len(sharedNoise)+len(boards[platform].noise))
	out = append(out, sharedNoise...)
	return append(out, boards[platform].noise...)
}
