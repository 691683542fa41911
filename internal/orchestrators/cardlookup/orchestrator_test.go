package cardlookup_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	xwingdatamock "github.com/KirkDiggler/xwing-api/internal/clients/xwingdata/mock"
	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
	"github.com/KirkDiggler/xwing-api/internal/errors"
	"github.com/KirkDiggler/xwing-api/internal/markup"
	"github.com/KirkDiggler/xwing-api/internal/orchestrators/cardlookup"
	"github.com/KirkDiggler/xwing-api/internal/pkg/idgen"
	"github.com/KirkDiggler/xwing-api/internal/repositories/dataset"
	datasetmock "github.com/KirkDiggler/xwing-api/internal/repositories/dataset/mock"
	"github.com/KirkDiggler/xwing-api/internal/testutils"
	"github.com/KirkDiggler/xwing-api/internal/testutils/builders"
	"github.com/KirkDiggler/xwing-api/internal/testutils/mocks"
)

const testSource = "file:testdata/dataset.json"

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockClient *xwingdatamock.MockClient
	mockRepo   *datasetmock.MockRepository
	sample     *xwing.Dataset
	ctx        context.Context
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = xwingdatamock.NewMockClient(s.ctrl)
	s.mockRepo = datasetmock.NewMockRepository(s.ctrl)
	s.sample = testutils.SampleDataset(s.T())
	s.ctx = context.Background()

	mocks.ExpectSource(s.mockClient, testSource)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) newOrchestrator(withRepo bool, maxResults int) cardlookup.Service {
	cfg := &cardlookup.Config{
		DataClient:  s.mockClient,
		Printer:     markup.NewSlackPrinter(),
		IDGenerator: idgen.NewSequential("lookup"),
		MaxResults:  maxResults,
	}
	if withRepo {
		cfg.DatasetRepo = s.mockRepo
	}

	svc, err := cardlookup.NewOrchestrator(cfg)
	s.Require().NoError(err)
	return svc
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	testCases := []struct {
		name   string
		cfg    *cardlookup.Config
		errMsg string
	}{
		{name: "nil config", cfg: nil, errMsg: "config cannot be nil"},
		{name: "missing client", cfg: &cardlookup.Config{Printer: markup.NewSlackPrinter()}, errMsg: "DataClient"},
		{name: "missing printer", cfg: &cardlookup.Config{DataClient: s.mockClient}, errMsg: "Printer"},
		{
			name:   "result limit too high",
			cfg:    &cardlookup.Config{DataClient: s.mockClient, Printer: markup.NewSlackPrinter(), MaxResults: 500},
			errMsg: "MaxResults",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			svc, err := cardlookup.NewOrchestrator(tc.cfg)
			s.Nil(svc)
			s.Require().Error(err)
			s.Contains(err.Error(), tc.errMsg)
		})
	}
}

func (s *OrchestratorTestSuite) TestLookupUsesCachedDataset() {
	svc := s.newOrchestrator(true, 0)

	s.mockRepo.EXPECT().
		Get(gomock.Any(), dataset.GetInput{Source: testSource}).
		Return(&dataset.GetOutput{Dataset: s.sample, StoredAt: time.Now()}, nil)

	output, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "fcs"})
	s.Require().NoError(err)
	s.Equal("lookup_1", output.RequestID)
	s.Equal(1, output.Matched)
	s.False(output.TooMany)
	s.Require().NotEmpty(output.Lines)
	s.Contains(output.Lines[0], testutils.FireControlSystem)
}

func (s *OrchestratorTestSuite) TestCacheMissFetchesAndWritesBack() {
	svc := s.newOrchestrator(true, 0)

	gomock.InOrder(
		mocks.ExpectCacheMiss(s.mockRepo, testSource),
		mocks.ExpectFetch(s.mockClient, s.sample),
		mocks.ExpectCacheWrite(s.mockRepo, testSource, s.sample),
	)

	output, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "krennic"})
	s.Require().NoError(err)
	s.Equal(2, output.Matched, "the condition follows its card")

	// the index is memoized so a second lookup touches neither cache nor client
	output, err = svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "ghost"})
	s.Require().NoError(err)
	s.Equal(1, output.Matched)
}

func (s *OrchestratorTestSuite) TestCacheFailuresAreNotFatal() {
	svc := s.newOrchestrator(true, 0)

	s.mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.Internal("connection refused"))
	s.mockClient.EXPECT().FetchDataset(gomock.Any()).Return(s.sample, nil)
	s.mockRepo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil, errors.Internal("connection refused"))

	output, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "x-wing"})
	s.Require().NoError(err)
	s.Equal(1, output.Matched)
}

func (s *OrchestratorTestSuite) TestWithoutCache() {
	svc := s.newOrchestrator(false, 0)

	mocks.ExpectFetch(s.mockClient, s.sample)

	s.Require().NoError(svc.Warm(s.ctx))
	output, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: ":title:"})
	s.Require().NoError(err)
	s.Equal(4, output.Matched)
}

func (s *OrchestratorTestSuite) TestFailedBuildIsRetried() {
	svc := s.newOrchestrator(false, 0)

	gomock.InOrder(
		s.mockClient.EXPECT().FetchDataset(gomock.Any()).Return(nil, errors.Unavailable("upstream down")),
		s.mockClient.EXPECT().FetchDataset(gomock.Any()).Return(s.sample, nil),
	)

	_, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "fcs"})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))

	output, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "fcs"})
	s.Require().NoError(err)
	s.Equal(1, output.Matched)
}

func (s *OrchestratorTestSuite) TestInconsistentDataset() {
	svc := s.newOrchestrator(false, 0)

	broken := builders.NewDatasetBuilder().
		WithCards("ships", "xwing",
			builders.NewShip("X-wing", "xwing").Build(),
			builders.NewShip("X-wing", "xwing").Build()).
		WithCards("pilots", "wedge",
			builders.NewPilot("Wedge", "wedge", "xwing", "Rebel Alliance").Build()).
		Build()
	s.mockClient.EXPECT().FetchDataset(gomock.Any()).Return(broken, nil)

	_, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "wedge"})
	s.Require().Error(err)
	s.True(errors.IsDataLoss(err))
}

func (s *OrchestratorTestSuite) TestInvalidQuery() {
	svc := s.newOrchestrator(false, 0)
	s.mockClient.EXPECT().FetchDataset(gomock.Any()).Return(s.sample, nil)

	_, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "<= 3"})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal("You need to specify a slot to search by points value.", errors.GetMessage(err))

	_, err = svc.Lookup(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestTooManyResults() {
	svc := s.newOrchestrator(false, 1)
	s.mockClient.EXPECT().FetchDataset(gomock.Any()).Return(s.sample, nil)

	output, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "hot shot"})
	s.Require().NoError(err)
	s.True(output.TooMany)
	s.Equal([]string{"Your search matched more than 1 cards, please be more specific."}, output.Lines)
}

func (s *OrchestratorTestSuite) TestConcurrentFirstLookupsShareOneBuild() {
	svc := s.newOrchestrator(false, 0)

	s.mockClient.EXPECT().
		FetchDataset(gomock.Any()).
		DoAndReturn(func(context.Context) (*xwing.Dataset, error) {
			time.Sleep(20 * time.Millisecond)
			return s.sample, nil
		}).
		Times(1)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "fcs"}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
}

func (s *OrchestratorTestSuite) TestCallerGivingUpDoesNotCancelBuild() {
	svc := s.newOrchestrator(false, 0)

	release := make(chan struct{})
	s.mockClient.EXPECT().
		FetchDataset(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (*xwing.Dataset, error) {
			<-release
			return s.sample, ctx.Err()
		})

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := svc.Lookup(ctx, &cardlookup.LookupInput{Query: "fcs"})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))

	close(release)
	s.Require().NoError(svc.Warm(s.ctx))

	output, err := svc.Lookup(s.ctx, &cardlookup.LookupInput{Query: "fcs"})
	s.Require().NoError(err)
	s.Equal(1, output.Matched)
}
