package ui

import (
	"context"
	"errors"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/equip/internal/api"
	"github.com/five82/equip/internal/state"
)

// Messages

type dashboardData struct {
	Stats    api.Stats
	Assets   []api.Asset
	Requests []api.Request
}

type dashboardLoadedMsg struct {
	tok  state.Token
	data dashboardData
	err  error
}

type assetsLoadedMsg struct {
	tok    state.Token
	assets []api.Asset
	err    error
}

type requestsLoadedMsg struct {
	listTok  state.Token
	statsTok state.Token
	requests []api.Request
	stats    api.Stats
	err      error
}

type assetSavedMsg struct {
	tok     state.Token
	asset   api.Asset
	created bool
	err     error
}

type assetDeletedMsg struct {
	tok state.Token
	id  int64
	err error
}

type requestCreatedMsg struct {
	tok     state.Token
	request api.Request
	err     error
}

type requestStatusMsg struct {
	tok     state.Token
	from    api.RequestStatus
	request api.Request
	err     error
}

// Form submissions are routed back to the model, which owns the guards.

type submitAssetMsg struct {
	id     int64 // zero when creating
	input  api.AssetInput
	update api.AssetUpdate
}

type confirmDeleteMsg struct {
	id int64
}

type submitRequestMsg struct {
	input api.RequestInput
}

// Commands

func loadDashboardCmd(ctx context.Context, svc api.Service, tok state.Token, filter api.Filter) tea.Cmd {
	return func() tea.Msg {
		var data dashboardData
		err := state.Gather(ctx,
			func(ctx context.Context) (err error) {
				data.Stats, err = svc.FetchStats(ctx)
				return err
			},
			func(ctx context.Context) (err error) {
				data.Assets, err = svc.ListAssets(ctx, filter)
				return err
			},
			func(ctx context.Context) (err error) {
				data.Requests, err = svc.ListRequests(ctx, filter)
				return err
			},
		)
		return dashboardLoadedMsg{tok: tok, data: data, err: err}
	}
}

func loadAssetsCmd(ctx context.Context, svc api.Service, tok state.Token, filter api.Filter) tea.Cmd {
	return func() tea.Msg {
		assets, err := svc.ListAssets(ctx, filter)
		return assetsLoadedMsg{tok: tok, assets: assets, err: err}
	}
}

func loadRequestsCmd(ctx context.Context, svc api.Service, listTok, statsTok state.Token, filter api.Filter) tea.Cmd {
	return func() tea.Msg {
		msg := requestsLoadedMsg{listTok: listTok, statsTok: statsTok}
		msg.err = state.Gather(ctx,
			func(ctx context.Context) (err error) {
				msg.requests, err = svc.ListRequests(ctx, filter)
				return err
			},
			func(ctx context.Context) (err error) {
				msg.stats, err = svc.FetchStats(ctx)
				return err
			},
		)
		return msg
	}
}

func createAssetCmd(ctx context.Context, svc api.Service, tok state.Token, input api.AssetInput) tea.Cmd {
	return func() tea.Msg {
		asset, err := svc.CreateAsset(ctx, input)
		return assetSavedMsg{tok: tok, asset: asset, created: true, err: err}
	}
}

func updateAssetCmd(ctx context.Context, svc api.Service, tok state.Token, id int64, update api.AssetUpdate) tea.Cmd {
	return func() tea.Msg {
		asset, err := svc.UpdateAsset(ctx, id, update)
		return assetSavedMsg{tok: tok, asset: asset, err: err}
	}
}

func deleteAssetCmd(ctx context.Context, svc api.Service, tok state.Token, id int64) tea.Cmd {
	return func() tea.Msg {
		return assetDeletedMsg{tok: tok, id: id, err: svc.DeleteAsset(ctx, id)}
	}
}

func createRequestCmd(ctx context.Context, svc api.Service, tok state.Token, input api.RequestInput) tea.Cmd {
	return func() tea.Msg {
		req, err := svc.CreateRequest(ctx, input)
		return requestCreatedMsg{tok: tok, request: req, err: err}
	}
}

func updateRequestStatusCmd(ctx context.Context, svc api.Service, tok state.Token, from api.RequestStatus, id int64, to api.RequestStatus) tea.Cmd {
	return func() tea.Msg {
		req, err := svc.UpdateRequestStatus(ctx, id, to)
		return requestStatusMsg{tok: tok, from: from, request: req, err: err}
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// logFailure records a failed call with its underlying cause.
func logFailure(what string, err error) {
	var opErr *api.OpError
	if errors.As(err, &opErr) {
		log.Printf("%s failed: %s", what, opErr.Detail())
		return
	}
	log.Printf("%s failed: %v", what, err)
}
