package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

func TestMachine_StartsOnLanding(t *testing.T) {
	m := New(nil, nil)
	assert.Equal(t, PageLanding, m.Current())
}

func TestMachine_ProtectedPageWithoutSessionLandsOnLogin(t *testing.T) {
	m := New(func() bool { return false }, nil)

	for _, page := range []Page{PageDashboard, PagePostAd, PageMessages, PageProfile, PageHome} {
		m.Navigate(To(page))
		assert.Equal(t, PageLogin, m.Current(), "page %s should redirect", page)
	}
}

func TestMachine_ProtectedPageWithSession(t *testing.T) {
	m := New(func() bool { return true }, nil)

	m.Navigate(To(PageDashboard))
	assert.Equal(t, PageDashboard, m.Current())
}

func TestMachine_PublicPagesNeedNoSession(t *testing.T) {
	m := New(func() bool { return false }, nil)

	m.Navigate(To(PageAbout))
	assert.Equal(t, PageAbout, m.Current())
	m.Navigate(To(PageFaq))
	assert.Equal(t, PageFaq, m.Current())
}

func TestMachine_AdDetailSetsViewingSlot(t *testing.T) {
	m := New(func() bool { return true }, nil)
	ad := &domain.VehicleAd{ID: 7, Title: "Clio"}

	m.Navigate(AdDetail{Ad: ad})
	assert.Equal(t, PageAdDetail, m.Current())
	assert.Same(t, ad, m.ViewingAd())
}

func TestMachine_EditSlotClearedOnAnyOtherTarget(t *testing.T) {
	m := New(func() bool { return true }, nil)
	ad := &domain.VehicleAd{ID: 7}

	m.Navigate(EditAd{Ad: ad})
	assert.Equal(t, PageEditAd, m.Current())
	assert.Same(t, ad, m.EditingAd())

	m.Navigate(To(PageHome))
	assert.Nil(t, m.EditingAd())
}

func TestMachine_EditWithoutSessionRedirectsAndDropsPayload(t *testing.T) {
	m := New(func() bool { return false }, nil)

	m.Navigate(EditAd{Ad: &domain.VehicleAd{ID: 7}})
	assert.Equal(t, PageLogin, m.Current())
	assert.Nil(t, m.EditingAd())
}

func TestMachine_BlogPostSlot(t *testing.T) {
	m := New(nil, nil)
	post := &domain.BlogPost{ID: 2}

	m.Navigate(BlogPost{Post: post})
	assert.Equal(t, PageBlogPost, m.Current())
	assert.Same(t, post, m.ViewingPost())
}

func TestMachine_OnArriveFiresWithFinalPage(t *testing.T) {
	var arrived []Page
	m := New(func() bool { return false }, func(p Page) { arrived = append(arrived, p) })

	m.Navigate(To(PageAbout))
	m.Navigate(To(PageDashboard)) // no session, lands on Login

	assert.Equal(t, []Page{PageAbout, PageLogin}, arrived)
}

func TestMachine_OnPreAuthPage(t *testing.T) {
	m := New(nil, nil)
	assert.True(t, m.OnPreAuthPage()) // Landing

	m.Navigate(To(PageLogin))
	assert.True(t, m.OnPreAuthPage())

	m.Navigate(To(PageAbout))
	assert.False(t, m.OnPreAuthPage())
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(PageAllAds))
	assert.False(t, Known(Page("NOPE")))
}
