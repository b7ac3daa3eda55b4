package opportunity

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

var (
	actorID = uuid.MustParse("6f1c1f38-3f57-4d51-9a55-0b7e0a3c1d01")
	oppID   = uuid.MustParse("0d4b0e4e-7c1b-4a3f-8f7e-2c6d5f1e9a10")
	stageID = uuid.MustParse("9a3e2d1c-5b4f-4e6a-8d7c-1f2e3d4c5b6a")
	created = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
)

// newServer mounts the handler the way the API router does. A nil principal
// serves requests unauthenticated.
func newServer(svc Service, p *auth.Principal) http.Handler {
	r := chi.NewRouter()

	if p != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), *p)))
			})
		})
	}

	r.Route("/opportunities", NewHandler(svc, zap.NewNop()).Routes)

	return r
}

func principal() *auth.Principal {
	return &auth.Principal{ActorID: actorID, Scope: auth.ScopeOwn}
}

func wantActor() opportunity.Actor {
	return opportunity.Actor{ID: actorID, VisibleOwners: []uuid.UUID{actorID}}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	return out
}

func sampleOpportunity() *opportunity.Opportunity {
	return &opportunity.Opportunity{
		ID:               oppID,
		Name:             "Acme renewal",
		StageID:          stageID,
		Amount:           decimal.RequireFromString("1200"),
		Currency:         "EUR",
		CloseDate:        new(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)),
		Probability:      25,
		ForecastCategory: "pipeline",
		Priority:         opportunity.PriorityMedium,
		CreatedAt:        created,
	}
}

func TestHandler_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)

	rec := do(t, newServer(svc, nil), http.MethodGet, "/opportunities", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.ErrMissingToken.Error(), decodeBody(t, rec)["error"])
}

func TestHandler_Create(t *testing.T) {
	pipelineID := uuid.New()

	type testCase struct {
		name       string
		body       string
		setupMock  func(svc *MockService)
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}

	tests := []testCase{
		{
			name: "Success",
			body: `{"name":"Acme renewal","pipeline_id":"` + pipelineID.String() + `","amount":"1200","close_date":"2026-06-30"}`,
			setupMock: func(svc *MockService) {
				svc.EXPECT().
					Create(gomock.Any(), gomock.Any(), wantActor()).
					DoAndReturn(func(_ any, p opportunity.CreateParams, _ opportunity.Actor) (*opportunity.Opportunity, error) {
						assert.Equal(t, "Acme renewal", p.Name)
						assert.Equal(t, pipelineID, p.PipelineID)
						assert.Equal(t, "1200", p.Amount.String())
						require.NotNil(t, p.CloseDate)
						assert.Equal(t, "2026-06-30", p.CloseDate.Format(time.DateOnly))

						return sampleOpportunity(), nil
					})
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, oppID.String(), body["id"])
				assert.Equal(t, "open", body["status"])
				assert.Equal(t, "2026-06-30", body["close_date"])
				assert.Equal(t, "1200", body["amount"])
				assert.Equal(t, []any{}, body["tags"])
			},
		},
		{
			name:       "MalformedBody",
			body:       `{"name":`,
			setupMock:  func(svc *MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BadDate",
			body:       `{"name":"x","close_date":"30/06/2026"}`,
			setupMock:  func(svc *MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "ValidationFailed",
			body: `{"name":"","pipeline_id":"` + pipelineID.String() + `"}`,
			setupMock: func(svc *MockService) {
				svc.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, &opportunity.ValidationError{Fields: map[string]string{"name": "is required"}})
			},
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, map[string]any{"name": "is required"}, body["fields"])
			},
		},
		{
			name: "ServiceFailure",
			body: `{"name":"x"}`,
			setupMock: func(svc *MockService) {
				svc.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "internal error", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewMockService(ctrl)
			tt.setupMock(svc)

			rec := do(t, newServer(svc, principal()), http.MethodPost, "/opportunities", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.check != nil {
				tt.check(t, decodeBody(t, rec))
			}
		})
	}
}

func TestHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)
	ownerID := uuid.New()

	svc.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), wantActor()).
		DoAndReturn(func(_ any, f opportunity.ListFilter, p opportunity.Page, s opportunity.Sort, _ opportunity.Actor) (*opportunity.ListResult, error) {
			require.NotNil(t, f.OwnerID)
			assert.Equal(t, ownerID, *f.OwnerID)
			require.NotNil(t, f.Status)
			assert.Equal(t, opportunity.Status("open"), *f.Status)
			assert.Equal(t, "acme", f.Search)
			require.NotNil(t, f.CloseFrom)
			assert.Equal(t, 2, p.Number)
			assert.Equal(t, 10, p.Size)
			assert.Equal(t, opportunity.SortAmount, s.Field)
			assert.False(t, s.Desc)

			return &opportunity.ListResult{Items: []*opportunity.Opportunity{sampleOpportunity()}, Total: 11, Page: 2, PageSize: 10}, nil
		})

	rec := do(t, newServer(svc, principal()), http.MethodGet,
		"/opportunities?owner_id="+ownerID.String()+"&status=open&search=acme&close_from=2026-01-01&page=2&page_size=10&sort=amount&order=asc", "")

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 11, body["total"])
	assert.Len(t, body["items"], 1)
}

func TestHandler_ListRejectsBadQuery(t *testing.T) {
	for _, q := range []string{"owner_id=nope", "page=two", "order=sideways", "close_to=yesterday"} {
		t.Run(q, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewMockService(ctrl)

			rec := do(t, newServer(svc, principal()), http.MethodGet, "/opportunities?"+q, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_Get(t *testing.T) {
	type testCase struct {
		name       string
		path       string
		setupMock  func(svc *MockService)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Detail",
			path: "/opportunities/" + oppID.String(),
			setupMock: func(svc *MockService) {
				svc.EXPECT().Get(gomock.Any(), oppID, wantActor()).Return(&opportunity.Detail{
					Opportunity: sampleOpportunity(),
					Stage:       &pipeline.Stage{ID: stageID, Name: "Qualified", Kind: pipeline.KindOpen},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "InvalidID",
			path:       "/opportunities/not-a-uuid",
			setupMock:  func(svc *MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "NotFound",
			path: "/opportunities/" + oppID.String(),
			setupMock: func(svc *MockService) {
				svc.EXPECT().Get(gomock.Any(), oppID, gomock.Any()).
					Return(nil, &opportunity.NotFoundError{Resource: "opportunity", ID: oppID.String()})
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewMockService(ctrl)
			tt.setupMock(svc)

			rec := do(t, newServer(svc, principal()), http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_GetDetailBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)

	svc.EXPECT().Get(gomock.Any(), oppID, gomock.Any()).Return(&opportunity.Detail{
		Opportunity: sampleOpportunity(),
		Stage: &pipeline.Stage{
			ID:             stageID,
			Name:           "Negotiation",
			Kind:           pipeline.KindOpen,
			RequiredFields: []pipeline.RequiredField{pipeline.AnyOf("decision_maker", "champion")},
		},
		Names: opportunity.Names{Owner: "Dana"},
		LineItems: []*pricing.LineItem{{
			ID:         uuid.New(),
			Type:       pricing.ItemStandard,
			Name:       "Seats",
			Quantity:   decimal.NewFromInt(3),
			UnitPrice:  decimal.NewFromInt(100),
			Discount:   pricing.Percent(decimal.NewFromInt(10)),
			TotalPrice: decimal.NewFromInt(270),
		}},
	}, nil)

	rec := do(t, newServer(svc, principal()), http.MethodGet, "/opportunities/"+oppID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Dana", body["owner_name"])
	assert.Equal(t, oppID.String(), body["id"])

	stage := body["stage"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"any_of": []any{"decision_maker", "champion"}}}, stage["required_fields"])

	items := body["line_items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{"type": "percent", "value": "10"}, items[0].(map[string]any)["discount"])
	assert.Equal(t, []any{}, body["contact_roles"])
}

func TestHandler_Update(t *testing.T) {
	t.Run("EmptyPatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		rec := do(t, newServer(svc, principal()), http.MethodPatch, "/opportunities/"+oppID.String(), `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("RejectsFieldsOutsidePatch", func(t *testing.T) {
		for _, body := range []string{
			`{"stage_id":"` + uuid.NewString() + `"}`,
			`{"name":"Acme","won_at":"2026-05-01T00:00:00Z"}`,
			`{"probabilty":40}`,
		} {
			ctrl := gomock.NewController(t)
			svc := NewMockService(ctrl)

			rec := do(t, newServer(svc, principal()), http.MethodPatch, "/opportunities/"+oppID.String(), body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.Contains(t, decodeBody(t, rec)["error"], "unknown field", body)
		}
	})

	t.Run("ClearsCloseDate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		svc.EXPECT().
			Update(gomock.Any(), oppID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, _ uuid.UUID, p opportunity.Patch, _ opportunity.Actor) (*opportunity.Opportunity, error) {
				assert.True(t, p.CloseDate.IsSet())
				assert.Nil(t, p.CloseDate.Get())
				assert.False(t, p.OwnerID.IsSet())
				require.NotNil(t, p.Probability)
				assert.Equal(t, 40, *p.Probability)

				return sampleOpportunity(), nil
			})

		rec := do(t, newServer(svc, principal()), http.MethodPatch, "/opportunities/"+oppID.String(),
			`{"close_date":null,"probability":40}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ClosedDeal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		svc.EXPECT().
			Update(gomock.Any(), oppID, gomock.Any(), gomock.Any()).
			Return(nil, &opportunity.InvalidStateError{Op: "update", Reason: "opportunity is closed"})

		rec := do(t, newServer(svc, principal()), http.MethodPatch, "/opportunities/"+oppID.String(), `{"probability":40}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)

	svc.EXPECT().SoftDelete(gomock.Any(), oppID, wantActor()).Return(nil)

	rec := do(t, newServer(svc, principal()), http.MethodDelete, "/opportunities/"+oppID.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_ChangeStage(t *testing.T) {
	target := uuid.New()

	t.Run("FieldValues", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		svc.EXPECT().
			ChangeStage(gomock.Any(), oppID, gomock.Any(), wantActor()).
			DoAndReturn(func(_ any, _ uuid.UUID, in opportunity.ChangeStageInput, _ opportunity.Actor) (*opportunity.Opportunity, error) {
				assert.Equal(t, target, in.StageID)
				assert.Equal(t, "pricing agreed", in.Note)
				require.NotNil(t, in.Fields.Amount)
				assert.Equal(t, "5000", in.Fields.Amount.String())
				assert.Equal(t, opportunity.CustomFields{"budget": "50k"}, in.Fields.CustomFields)

				return sampleOpportunity(), nil
			})

		rec := do(t, newServer(svc, principal()), http.MethodPost, "/opportunities/"+oppID.String()+"/stage",
			`{"stage_id":"`+target.String()+`","note":"pricing agreed","field_values":{"amount":"5000","budget":"50k"}}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("UnmetFields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		svc.EXPECT().
			ChangeStage(gomock.Any(), oppID, gomock.Any(), gomock.Any()).
			Return(nil, &opportunity.ValidationError{Unmet: []pipeline.RequiredField{
				pipeline.Single("budget"),
				pipeline.AnyOf("decision_maker", "champion"),
			}})

		rec := do(t, newServer(svc, principal()), http.MethodPost, "/opportunities/"+oppID.String()+"/stage",
			`{"stage_id":"`+target.String()+`"}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, []any{
			"budget",
			map[string]any{"any_of": []any{"decision_maker", "champion"}},
		}, body["unmet_fields"])
		assert.Contains(t, body["error"], "missing required fields")
	})

	t.Run("RequiresJSON", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		req := httptest.NewRequest(http.MethodPost, "/opportunities/"+oppID.String()+"/stage", strings.NewReader("stage_id=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := httptest.NewRecorder()
		newServer(svc, principal()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestHandler_Close(t *testing.T) {
	type testCase struct {
		name       string
		path       string
		body       string
		setupMock  func(svc *MockService)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "WonWithoutBody",
			path: "/close-won",
			setupMock: func(svc *MockService) {
				svc.EXPECT().CloseWon(gomock.Any(), oppID, opportunity.CloseInput{}, wantActor()).Return(sampleOpportunity(), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "LostWithCompetitor",
			path: "/close-lost",
			body: `{"competitor":"Globex","notes":"price","close_date":"2026-03-01"}`,
			setupMock: func(svc *MockService) {
				svc.EXPECT().
					CloseLost(gomock.Any(), oppID, gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, _ uuid.UUID, in opportunity.CloseInput, _ opportunity.Actor) (*opportunity.Opportunity, error) {
						assert.Equal(t, "Globex", in.Competitor)
						assert.Equal(t, "price", in.Notes)
						require.NotNil(t, in.CloseDate)

						return sampleOpportunity(), nil
					})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "AlreadyWon",
			path: "/close-won",
			setupMock: func(svc *MockService) {
				svc.EXPECT().
					CloseWon(gomock.Any(), oppID, gomock.Any(), gomock.Any()).
					Return(nil, &opportunity.InvalidStateError{Op: "close_won", Reason: "opportunity is already won"})
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewMockService(ctrl)
			tt.setupMock(svc)

			rec := do(t, newServer(svc, principal()), http.MethodPost, "/opportunities/"+oppID.String()+tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_Reopen(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)

	svc.EXPECT().
		Reopen(gomock.Any(), oppID, opportunity.ReopenInput{StageID: stageID, Reason: "budget unfrozen"}, wantActor()).
		Return(sampleOpportunity(), nil)

	rec := do(t, newServer(svc, principal()), http.MethodPost, "/opportunities/"+oppID.String()+"/reopen",
		`{"stage_id":"`+stageID.String()+`","reason":"budget unfrozen"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)

	svc.EXPECT().StageHistory(gomock.Any(), oppID, gomock.Any()).Return([]*opportunity.StageHistoryEntry{{
		ID:          uuid.New(),
		ToStageID:   stageID,
		ToStageName: "Proposal",
		TimeInStage: new(90 * time.Minute),
		CreatedAt:   created,
	}}, nil)

	rec := do(t, newServer(svc, principal()), http.MethodGet, "/opportunities/"+oppID.String()+"/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.EqualValues(t, 5400, body[0]["time_in_stage_seconds"])
	assert.Nil(t, body[0]["from_stage_id"])
}

func TestHandler_AddLineItem(t *testing.T) {
	productID := uuid.New()

	type testCase struct {
		name       string
		body       string
		setupMock  func(svc *MockService)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "TaggedDiscountDefaultQuantity",
			body: `{"product_id":"` + productID.String() + `","discount":{"type":"percent","value":"10"}}`,
			setupMock: func(svc *MockService) {
				svc.EXPECT().
					AddLineItem(gomock.Any(), oppID, gomock.Any(), wantActor()).
					DoAndReturn(func(_ any, _ uuid.UUID, in pricing.AddInput, _ opportunity.Actor) (*opportunity.LineItemChange, error) {
						assert.Equal(t, productID, in.ProductID)
						assert.Equal(t, "1", in.Quantity.String())
						assert.Equal(t, pricing.DiscountPercent, in.Discount.Kind())
						assert.Equal(t, "10", in.Discount.Value().String())

						return &opportunity.LineItemChange{Amount: decimal.NewFromInt(90)}, nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "UnknownDiscountType",
			body:       `{"product_id":"` + productID.String() + `","discount":{"type":"bogo","value":"1"}}`,
			setupMock:  func(svc *MockService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "ProductMissing",
			body: `{"product_id":"` + productID.String() + `"}`,
			setupMock: func(svc *MockService) {
				svc.EXPECT().
					AddLineItem(gomock.Any(), oppID, gomock.Any(), gomock.Any()).
					Return(nil, &opportunity.NotFoundError{Resource: "product", ID: productID.String()})
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewMockService(ctrl)
			tt.setupMock(svc)

			rec := do(t, newServer(svc, principal()), http.MethodPost, "/opportunities/"+oppID.String()+"/line-items", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_UpdateLineItem(t *testing.T) {
	itemID := uuid.New()

	type testCase struct {
		name  string
		body  string
		check func(t *testing.T, u pricing.LineItemUpdate)
	}

	tests := []testCase{
		{
			name: "NullDiscountClears",
			body: `{"discount":null}`,
			check: func(t *testing.T, u pricing.LineItemUpdate) {
				require.NotNil(t, u.Discount)
				assert.True(t, u.Discount.IsZero())
			},
		},
		{
			name: "FixedDiscount",
			body: `{"discount":{"type":"fixed","value":"25"}}`,
			check: func(t *testing.T, u pricing.LineItemUpdate) {
				require.NotNil(t, u.Discount)
				assert.Equal(t, pricing.DiscountFixed, u.Discount.Kind())
			},
		},
		{
			name: "LegacyPercent",
			body: `{"discount_percent":"15","quantity":"2"}`,
			check: func(t *testing.T, u pricing.LineItemUpdate) {
				assert.Nil(t, u.Discount)
				require.NotNil(t, u.DiscountPercent)
				assert.Equal(t, "15", u.DiscountPercent.String())
				require.NotNil(t, u.Quantity)
			},
		},
		{
			name: "DiscountAbsent",
			body: `{"name":"Seats (annual)"}`,
			check: func(t *testing.T, u pricing.LineItemUpdate) {
				assert.Nil(t, u.Discount)
				assert.Nil(t, u.DiscountPercent)
				assert.Nil(t, u.DiscountAmount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewMockService(ctrl)

			svc.EXPECT().
				UpdateLineItem(gomock.Any(), oppID, itemID, gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ any, _, _ uuid.UUID, u pricing.LineItemUpdate, _ opportunity.Actor) (*opportunity.LineItemChange, error) {
					tt.check(t, u)
					return &opportunity.LineItemChange{Amount: decimal.NewFromInt(220)}, nil
				})

			rec := do(t, newServer(svc, principal()), http.MethodPatch,
				"/opportunities/"+oppID.String()+"/line-items/"+itemID.String(), tt.body)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "220", decodeBody(t, rec)["amount"])
		})
	}
}

func TestHandler_RemoveLineItem_DerivedRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)
	itemID := uuid.New()

	svc.EXPECT().
		RemoveLineItem(gomock.Any(), oppID, itemID, gomock.Any()).
		Return(nil, &opportunity.InvalidStateError{Op: "remove_line_item", Reason: "bundle rows are removed with their parent"})

	rec := do(t, newServer(svc, principal()), http.MethodDelete,
		"/opportunities/"+oppID.String()+"/line-items/"+itemID.String(), "")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_ContactRoles(t *testing.T) {
	contactID := uuid.New()

	t.Run("UpsertWithoutBody", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		svc.EXPECT().
			AddContactRole(gomock.Any(), oppID, opportunity.AddContactRoleInput{ContactID: contactID}, wantActor()).
			Return(&opportunity.ContactRole{ID: uuid.New(), OpportunityID: oppID, ContactID: contactID}, nil)

		rec := do(t, newServer(svc, principal()), http.MethodPut,
			"/opportunities/"+oppID.String()+"/contacts/"+contactID.String(), "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, contactID.String(), decodeBody(t, rec)["contact_id"])
	})

	t.Run("PrimaryConflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		svc.EXPECT().
			AddContactRole(gomock.Any(), oppID, opportunity.AddContactRoleInput{ContactID: contactID, Role: "champion", IsPrimary: true}, gomock.Any()).
			Return(nil, &opportunity.ConflictError{Message: "opportunity already has a primary contact"})

		rec := do(t, newServer(svc, principal()), http.MethodPut,
			"/opportunities/"+oppID.String()+"/contacts/"+contactID.String(), `{"role":"champion","is_primary":true}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Remove", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockService(ctrl)

		svc.EXPECT().RemoveContactRole(gomock.Any(), oppID, contactID, gomock.Any()).Return(nil)

		rec := do(t, newServer(svc, principal()), http.MethodDelete,
			"/opportunities/"+oppID.String()+"/contacts/"+contactID.String(), "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestHandler_Duplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)
	accountID := uuid.New()

	svc.EXPECT().
		FindDuplicates(gomock.Any(), opportunity.DuplicateQuery{Name: "Acme renewal", AccountID: &accountID}, wantActor()).
		Return([]*opportunity.Opportunity{sampleOpportunity()}, nil)

	rec := do(t, newServer(svc, principal()), http.MethodGet,
		"/opportunities/duplicates?name=Acme+renewal&account_id="+accountID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 1)
}

func TestHandler_Forecast(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockService(ctrl)

	svc.EXPECT().ForecastSummary(gomock.Any(), (*uuid.UUID)(nil), wantActor()).Return([]opportunity.ForecastRow{{
		Category:       "commit",
		Count:          2,
		Amount:         decimal.NewFromInt(1000),
		WeightedAmount: decimal.NewFromInt(800),
	}}, nil)

	rec := do(t, newServer(svc, principal()), http.MethodGet, "/opportunities/forecast", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"category":"commit","count":2,"amount":"1000","weighted_amount":"800"}]`, rec.Body.String())
}
