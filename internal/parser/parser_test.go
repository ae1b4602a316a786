package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/location"
)

func testParser() *Parser {
	return New(location.New(location.DefaultEntries()))
}

func TestParse_DetectsIntentAndLocationAndKeywords(t *testing.T) {
	p := testParser()
	qc := p.Parse("tìm quán ăn hải sản cho gia đình tại Hải Phòng")

	assert.Equal(t, models.IntentFindRestaurant, qc.Intent)
	assert.Equal(t, "Hải Phòng", qc.Location)
	assert.Equal(t, "family", qc.TargetAudience)
	assert.Greater(t, qc.Confidence, 0.0)
}

func TestParse_FallsBackToGeneralIntent(t *testing.T) {
	p := testParser()
	qc := p.Parse("xin chào")
	assert.Equal(t, models.IntentGeneral, qc.Intent)
}

func TestParse_NeverFailsOnEmptyQuery(t *testing.T) {
	p := testParser()
	qc := p.Parse("")
	assert.Equal(t, models.IntentGeneral, qc.Intent)
	assert.Equal(t, "", qc.Location)
}

func TestParse_ServiceTagAndPricePreference(t *testing.T) {
	p := testParser()
	qc := p.Parse("khách sạn giá rẻ có sân vườn")
	assert.Equal(t, models.IntentFindHotel, qc.Intent)
	assert.Contains(t, qc.ServiceRequirements, "outdoor")
	assert.Equal(t, "budget", qc.PricePreference)
}

func TestParse_LocationFuzzyFallbackOnMisspelling(t *testing.T) {
	p := testParser()
	qc := p.Parse("resort o da nag")
	assert.Equal(t, "Đà Nẵng", qc.Location)
}

func TestParse_NoFuzzyLocationWithoutCuePhrase(t *testing.T) {
	p := testParser()
	// "nha hang" scores high against the surface form "nha trang";
	// without a cue phrase it must not be taken for a location.
	qc := p.Parse("nhà hàng ngon")
	assert.Equal(t, "", qc.Location)
}

func TestExtractLocationFuzzy_PrefersBestScoringWindow(t *testing.T) {
	p := testParser()
	canon, span := p.extractLocationFuzzy("mot chuyen di toi da nag dep troi")
	assert.Equal(t, "Đà Nẵng", canon)
	assert.NotEmpty(t, span)
}
