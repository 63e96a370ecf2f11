package nav

import (
	"sync"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

// Page is the closed set of navigation states. Exactly one is active.
type Page string

const (
	PageLanding        Page = "LANDING"
	PageLogin          Page = "LOGIN"
	PageRegister       Page = "REGISTER"
	PageVerifyAccount  Page = "VERIFY_ACCOUNT"
	PageHome           Page = "HOME"
	PageDashboard      Page = "DASHBOARD"
	PagePostAd         Page = "POST_AD"
	PageEditAd         Page = "EDIT_AD"
	PageMessages       Page = "MESSAGES"
	PageProfile        Page = "PROFILE"
	PageContact        Page = "CONTACT"
	PageAbout          Page = "ABOUT"
	PageTerms          Page = "TERMS"
	PagePrivacy        Page = "PRIVACY"
	PageSearchResults  Page = "SEARCH_RESULTS"
	PageFaq            Page = "FAQ"
	PageAdDetail       Page = "AD_DETAIL"
	PageBlog           Page = "BLOG"
	PageBlogPost       Page = "BLOG_POST"
	PageForgotPassword Page = "FORGOT_PASSWORD"
	PageAllAds         Page = "ALL_ADS"
)

var allPages = map[Page]bool{
	PageLanding: true, PageLogin: true, PageRegister: true,
	PageVerifyAccount: true, PageHome: true, PageDashboard: true,
	PagePostAd: true, PageEditAd: true, PageMessages: true,
	PageProfile: true, PageContact: true, PageAbout: true,
	PageTerms: true, PagePrivacy: true, PageSearchResults: true,
	PageFaq: true, PageAdDetail: true, PageBlog: true,
	PageBlogPost: true, PageForgotPassword: true, PageAllAds: true,
}

// Known reports whether p is a member of the page set.
func Known(p Page) bool { return allPages[p] }

// protectedPages require an active session; navigating to one without a
// session silently lands on Login instead.
var protectedPages = map[Page]bool{
	PageDashboard: true,
	PagePostAd:    true,
	PageEditAd:    true,
	PageMessages:  true,
	PageProfile:   true,
	PageHome:      true,
}

// preAuthPages are the pages a freshly established session should leave.
var preAuthPages = map[Page]bool{
	PageLanding:        true,
	PageLogin:          true,
	PageRegister:       true,
	PageVerifyAccount:  true,
	PageForgotPassword: true,
}

// Target is a page plus whatever payload that page needs. Payload-carrying
// pages get their own variant so an ad can never be attached to, say,
// the FAQ page.
type Target interface {
	page() Page
}

type plain struct{ p Page }

func (t plain) page() Page { return t.p }

// To targets a page that carries no payload.
func To(p Page) Target { return plain{p: p} }

// AdDetail targets the ad detail page for a specific ad.
type AdDetail struct{ Ad *domain.VehicleAd }

func (t AdDetail) page() Page { return PageAdDetail }

// EditAd targets the ad form pre-filled with an existing ad.
type EditAd struct{ Ad *domain.VehicleAd }

func (t EditAd) page() Page { return PageEditAd }

// BlogPost targets a single blog article.
type BlogPost struct{ Post *domain.BlogPost }

func (t BlogPost) page() Page { return PageBlogPost }

// Machine holds the single current page and the auxiliary payload slots.
// It never returns errors: an unknown page is a caller contract violation,
// and a denied protected transition is a silent redirect, not a failure.
type Machine struct {
	mu          sync.Mutex
	current     Page
	editingAd   *domain.VehicleAd
	viewingAd   *domain.VehicleAd
	viewingPost *domain.BlogPost

	hasSession func() bool
	onArrive   func(Page) // collaborator effect, e.g. scroll reset
}

// New returns a machine on the Landing page. hasSession gates protected
// transitions; onArrive may be nil.
func New(hasSession func() bool, onArrive func(Page)) *Machine {
	if hasSession == nil {
		hasSession = func() bool { return false }
	}
	return &Machine{
		current:    PageLanding,
		hasSession: hasSession,
		onArrive:   onArrive,
	}
}

// Navigate moves to the target page, applying the protected-page gate and
// the payload slot side effects.
func (m *Machine) Navigate(t Target) {
	m.mu.Lock()

	page := t.page()
	if protectedPages[page] && !m.hasSession() {
		page = PageLogin
		t = plain{p: PageLogin}
	}

	switch v := t.(type) {
	case EditAd:
		m.editingAd = v.Ad
	default:
		m.editingAd = nil
	}
	if v, ok := t.(AdDetail); ok {
		m.viewingAd = v.Ad
	}
	if v, ok := t.(BlogPost); ok {
		m.viewingPost = v.Post
	}

	m.current = page
	arrive := m.onArrive
	m.mu.Unlock()

	if arrive != nil {
		arrive(page)
	}
}

// Current returns the active page.
func (m *Machine) Current() Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// OnPreAuthPage reports whether the active page is one of the
// landing/login/register flow pages.
func (m *Machine) OnPreAuthPage() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return preAuthPages[m.current]
}

// EditingAd returns the ad loaded into the edit form, if any.
func (m *Machine) EditingAd() *domain.VehicleAd {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editingAd
}

// ViewingAd returns the ad on the detail page, if any.
func (m *Machine) ViewingAd() *domain.VehicleAd {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewingAd
}

// ViewingPost returns the open blog post, if any.
func (m *Machine) ViewingPost() *domain.BlogPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewingPost
}
