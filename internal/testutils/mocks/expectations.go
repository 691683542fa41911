// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"go.uber.org/mock/gomock"

	xwingdatamock "github.com/KirkDiggler/xwing-api/internal/clients/xwingdata/mock"
	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
	"github.com/KirkDiggler/xwing-api/internal/errors"
	"github.com/KirkDiggler/xwing-api/internal/repositories/dataset"
	datasetmock "github.com/KirkDiggler/xwing-api/internal/repositories/dataset/mock"
)

// ExpectSource lets any number of Source calls report source
func ExpectSource(mockClient *xwingdatamock.MockClient, source string) {
	mockClient.EXPECT().Source().Return(source).AnyTimes()
}

// ExpectFetch sets up a single successful data set download
func ExpectFetch(mockClient *xwingdatamock.MockClient, ds *xwing.Dataset) *gomock.Call {
	return mockClient.EXPECT().FetchDataset(gomock.Any()).Return(ds, nil)
}

// ExpectCacheMiss sets up a cache read that finds nothing for source
func ExpectCacheMiss(mockRepo *datasetmock.MockRepository, source string) *gomock.Call {
	return mockRepo.EXPECT().
		Get(gomock.Any(), dataset.GetInput{Source: source}).
		Return(nil, errors.NotFound("dataset not cached"))
}

// ExpectCacheWrite sets up a successful write back of ds under source
func ExpectCacheWrite(mockRepo *datasetmock.MockRepository, source string, ds *xwing.Dataset) *gomock.Call {
	return mockRepo.EXPECT().
		Put(gomock.Any(), dataset.PutInput{Source: source, Dataset: ds}).
		Return(&dataset.PutOutput{Key: dataset.GetKey(source)}, nil)
}
