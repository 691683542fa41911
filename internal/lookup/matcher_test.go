package lookup_test

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"github.com/KirkDiggler/xwing-api/internal/errors"
	"github.com/KirkDiggler/xwing-api/internal/lookup"
	"github.com/KirkDiggler/xwing-api/internal/markup"
	"github.com/KirkDiggler/xwing-api/internal/testutils"
	"github.com/KirkDiggler/xwing-api/internal/testutils/builders"
)

type MatcherTestSuite struct {
	suite.Suite
	index   *lookup.Index
	matcher *lookup.Matcher
}

func TestMatcherSuite(t *testing.T) {
	suite.Run(t, new(MatcherTestSuite))
}

func (s *MatcherTestSuite) SetupTest() {
	index, err := lookup.NewIndex(testutils.SampleDataset(s.T()))
	s.Require().NoError(err)
	s.index = index
	s.matcher = lookup.NewMatcher(index, markup.NewSlackPrinter())
}

func (s *MatcherTestSuite) names(query string) []string {
	cards, err := s.matcher.Lookup(query)
	s.Require().NoError(err)

	var names []string
	for card := range cards {
		names = append(names, card.Name)
	}
	return names
}

func (s *MatcherTestSuite) TestNameQueries() {
	testCases := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "alias", query: "fcs", want: []string{testutils.FireControlSystem}},
		{name: "alias to short name", query: "stressbot", want: []string{"R3-A2"}},
		{name: "optional spaces", query: "hot shot", want: []string{testutils.HotShotBlaster, testutils.HotshotCoPilot}},
		{name: "case insensitive", query: "HEAVY LASER CANNON", want: []string{"Heavy Laser Cannon"}},
		{name: "plural", query: "homing missile", want: []string{"Homing Missiles"}},
		{name: "entities decoded", query: "&quot;Hot Shot&quot; Blaster", want: []string{testutils.HotShotBlaster}},
		{name: "substring fallback", query: "lasercann", want: []string{"Heavy Laser Cannon"}},
		{name: "ship designation", query: "r3", want: []string{"R3-A2"}},
		{name: "ship", query: "x-wing", want: []string{testutils.XWing}},
		{name: "both damage decks", query: "direct hit", want: []string{"Direct Hit!", "Direct Hit!"}},
		{name: "too short", query: "ab", want: nil},
		{name: "empty", query: "", want: nil},
		{name: "no match", query: "death star", want: nil},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, s.names(tc.query))
		})
	}
}

func (s *MatcherTestSuite) TestSlotFilters() {
	testCases := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "prefix icon", query: ":illicit: hot shot", want: []string{testutils.HotShotBlaster}},
		{name: "suffix icon", query: "hot shot :crew:", want: []string{testutils.HotshotCoPilot}},
		{name: "icon case folded", query: ":Crew: hot shot", want: []string{testutils.HotshotCoPilot}},
		{name: "browse by name", query: "Title", want: []string{"Ghost", "Millennium Falcon", "Moldy Crow", "Virago"}},
		{name: "slot word matching card names", query: "cannon", want: []string{"Heavy Laser Cannon"}},
		{name: "browse by icon", query: ":title:", want: []string{"Ghost", "Millennium Falcon", "Moldy Crow", "Virago"}},
		{name: "browse with conditions", query: ":crew:", want: []string{testutils.HotshotCoPilot, testutils.DirectorKrennic, testutils.OptimizedProto}},
		{name: "ship slot", query: ":lambdaclasst4ashuttle:", want: []string{testutils.LambdaShuttle, "Captain Kagi"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, s.names(tc.query))
		})
	}
}

func (s *MatcherTestSuite) TestSlotWordPrefersCardNames() {
	dataset := builders.NewDatasetBuilder().
		WithCards("upgrades", "r2astromech", builders.NewUpgrade("R2 Astromech", "r2astromech", "Astromech Droid").Build()).
		WithCards("upgrades", "r3a2", builders.NewUpgrade("R3-A2", "r3a2", "Astromech Droid").Build()).
		Build()
	index, err := lookup.NewIndex(dataset)
	s.Require().NoError(err)
	matcher := lookup.NewMatcher(index, markup.NewSlackPrinter())

	names := func(query string) []string {
		cards, err := matcher.Lookup(query)
		s.Require().NoError(err)
		var out []string
		for card := range cards {
			out = append(out, card.Name)
		}
		return out
	}

	s.Equal([]string{"R2 Astromech"}, names("astromech"))
	s.Equal([]string{"R2 Astromech", "R3-A2"}, names(":astromech:"))
}

func (s *MatcherTestSuite) TestPointsFilters() {
	testCases := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "less or equal", query: "title <= 6", want: []string{"Ghost", "Millennium Falcon"}},
		{name: "icon slot", query: ":title: > 5", want: []string{"Millennium Falcon", "Moldy Crow"}},
		{name: "single equals", query: "title=12", want: []string{"Moldy Crow"}},
		{name: "not equal", query: "title != 5", want: []string{"Millennium Falcon", "Moldy Crow"}},
		{name: "nothing cheap enough", query: "title < 1", want: nil},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, s.names(tc.query))
		})
	}
}

func (s *MatcherTestSuite) TestPointsFilterEveryResultPasses() {
	cards, err := s.matcher.Lookup(":title: <= 6")
	s.Require().NoError(err)

	for card := range cards {
		points, err := card.Points.Float()
		s.Require().NoError(err)
		s.LessOrEqual(points, 6.0)
		s.Equal("Title", card.Slot)
	}
}

func (s *MatcherTestSuite) TestInvalidQueries() {
	testCases := []struct {
		name    string
		query   string
		message string
	}{
		{name: "points without slot", query: "<= 3", message: lookup.ErrPointsNeedSlot},
		{name: "bad operand", query: "title <= lots", message: `invalid points filter: "lots" is not a number`},
		{name: "unknown slot", query: "spaceship > 3", message: `invalid points filter: unknown slot "spaceship"`},
		{name: "not a number", query: "title != nan", message: `invalid points filter: "nan" is not a number`},
		{name: "infinity", query: "title < inf", message: `invalid points filter: "inf" is not a number`},
		{name: "hex float", query: "title <= 0x1p3", message: `invalid points filter: "0x1p3" is not a number`},
		{name: "bad later segment", query: "fcs]] [[>= 2", message: lookup.ErrPointsNeedSlot},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cards, err := s.matcher.Lookup(tc.query)
			s.Nil(cards)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Equal(tc.message, errors.GetMessage(err))
		})
	}
}

func (s *MatcherTestSuite) TestMultipleSegments() {
	s.Equal([]string{testutils.FireControlSystem, "Heavy Laser Cannon"}, s.names("fcs]] and [[hlc"))
	s.Equal([]string{"Heavy Laser Cannon"}, s.names("hlc]] [[Heavy Laser Cannon"))
}

func (s *MatcherTestSuite) TestConditionsFollowTheirCardOnce() {
	s.Equal(
		[]string{testutils.DirectorKrennic, testutils.OptimizedProto},
		s.names("krennic]] [[optimized prototype"),
	)
	s.Equal(
		[]string{testutils.OptimizedProto, testutils.DirectorKrennic},
		s.names("optimized prototype]] [[krennic"),
	)
}

func (s *MatcherTestSuite) TestConditionsFollowDatasetOrder() {
	dataset := builders.NewDatasetBuilder().
		WithCards("upgrades", "triggercard",
			builders.NewUpgrade("Trigger Card", "triggercard", "Crew").WithConditions("Beta Cond", "Alpha Cond").Build()).
		WithCards("conditions", "alphacond", builders.NewCondition("Alpha Cond", "alphacond").Build()).
		WithCards("conditions", "betacond", builders.NewCondition("Beta Cond", "betacond").Build()).
		Build()

	index, err := lookup.NewIndex(dataset)
	s.Require().NoError(err)
	cards, err := lookup.NewMatcher(index, markup.NewSlackPrinter()).Lookup("trigger card")
	s.Require().NoError(err)

	var names []string
	for card := range cards {
		names = append(names, card.Name)
	}
	s.Equal([]string{"Trigger Card", "Alpha Cond", "Beta Cond"}, names)
}

func (s *MatcherTestSuite) TestNoCardYieldedTwice() {
	cards, err := s.matcher.Lookup(":crew:]] [[krennic]] [[hot shot]] [[Crew")
	s.Require().NoError(err)

	seen := make(map[int]bool)
	for card := range cards {
		s.False(seen[card.ID], "card %d yielded twice", card.ID)
		seen[card.ID] = true
	}
	s.Len(seen, 4)
}

func (s *MatcherTestSuite) TestLookupIsLazy() {
	cards, err := s.matcher.Lookup("title")
	s.Require().NoError(err)

	var first string
	for card := range cards {
		first = card.Name
		break
	}
	s.Equal("Ghost", first)
}

func (s *MatcherTestSuite) TestTerminalPrinterSlotFilter() {
	matcher := lookup.NewMatcher(s.index, markup.NewTerminalPrinter())
	cards, err := matcher.Lookup("{Title} <= 5")
	s.Require().NoError(err)

	var names []string
	for card := range cards {
		names = append(names, card.Name)
	}
	s.Equal([]string{"Ghost"}, names)
}

func TestConcurrentLookups(t *testing.T) {
	defer goleak.VerifyNone(t)

	index, err := lookup.NewIndex(testutils.SampleDataset(t))
	if err != nil {
		t.Fatal(err)
	}
	matcher := lookup.NewMatcher(index, markup.NewSlackPrinter())
	renderer := lookup.NewRenderer(markup.NewSlackPrinter())

	queries := []string{"fcs", "hot shot", "title <= 6", ":crew:", "x-wing", "direct hit"}

	var wg sync.WaitGroup
	errs := make(chan error, len(queries)*4)
	for i := 0; i < 4; i++ {
		for _, q := range queries {
			wg.Add(1)
			go func(query string) {
				defer wg.Done()
				cards, err := matcher.Lookup(query)
				if err != nil {
					errs <- err
					return
				}
				if res := lookup.HandleLookup(cards, renderer, lookup.DefaultMaxResults); len(res.Lines) == 0 {
					errs <- fmt.Errorf("query %q rendered nothing", query)
				}
			}(q)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestHandleLookupCap(t *testing.T) {
	torpedoes := builders.NewDatasetBuilder()
	for i := 1; i <= 11; i++ {
		name := fmt.Sprintf("Proton Torpedo Mk %d", i)
		torpedoes.WithCards("upgrades", fmt.Sprintf("protontorpedomk%d", i),
			builders.NewUpgrade(name, fmt.Sprintf("protontorpedomk%d", i), "Torpedo").WithPoints("4").Build())
	}

	index, err := lookup.NewIndex(torpedoes.Build())
	if err != nil {
		t.Fatal(err)
	}
	printer := markup.NewSlackPrinter()
	matcher := lookup.NewMatcher(index, printer)
	renderer := lookup.NewRenderer(printer)

	cards, err := matcher.Lookup(":torpedo:")
	if err != nil {
		t.Fatal(err)
	}
	res := lookup.HandleLookup(cards, renderer, lookup.DefaultMaxResults)
	if !res.TooMany {
		t.Fatalf("expected too many results, got %d", res.Matched)
	}
	want := []string{"Your search matched more than 10 cards, please be more specific."}
	if !slices.Equal(want, res.Lines) {
		t.Errorf("lines = %q, want %q", res.Lines, want)
	}

	cards, err = matcher.Lookup(":torpedo: <= 4")
	if err != nil {
		t.Fatal(err)
	}
	res = lookup.HandleLookup(cards, renderer, 20)
	if res.TooMany || res.Matched != 11 {
		t.Errorf("matched = %d, too many = %v", res.Matched, res.TooMany)
	}
}
