/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache/inmemory"
	"github.com/redhat-data-and-ai/addressbook/pkg/cache/mocks"
	"github.com/redhat-data-and-ai/addressbook/pkg/config"
	"github.com/redhat-data-and-ai/addressbook/pkg/store"
	"github.com/redhat-data-and-ai/addressbook/pkg/types"
)

func newRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.GET("/status", h.Status)
	router.POST("/api/user", h.AddUser)
	router.PUT("/api/user/:name", h.UpdateUser)
	router.DELETE("/api/user/:name", h.DeleteUser)
	router.GET("/api/user", h.GetAllUsers)
	return router
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func listUsers(router http.Handler) []types.User {
	rec := do(router, http.MethodGet, "/api/user", "")
	ExpectWithOffset(1, rec.Code).To(Equal(http.StatusOK))

	var users []types.User
	ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), &users)).To(Succeed())
	return users
}

var _ = Describe("User handlers", func() {
	var (
		cfg    *config.AppConfig
		router *gin.Engine
	)

	BeforeEach(func() {
		cfg = &config.AppConfig{
			App: config.App{Name: "addressbook-test", Version: "v0.0.1", Environment: "test"},
		}
		c, err := inmemory.NewCache(&inmemory.Config{DefaultExpiration: -1, CleanupInterval: -1})
		Expect(err).NotTo(HaveOccurred())
		router = newRouter(NewHandlers(cfg, store.New(c)))
	})

	It("reports status", func() {
		rec := do(router, http.MethodGet, "/status", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"status":"running"`))
		Expect(rec.Body.String()).To(ContainSubstring("addressbook-test"))
	})

	Context("GET /api/user", func() {
		It("returns an empty array on an untouched store", func() {
			rec := do(router, http.MethodGet, "/api/user", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("[]"))
		})
	})

	Context("POST /api/user", func() {
		It("adds a user and rejects a case-insensitive duplicate", func() {
			By("adding John Doe")
			rec := do(router, http.MethodPost, "/api/user", `{"name":"John Doe","address":"123 Main St"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("User added successfully."))

			By("adding john doe again")
			rec = do(router, http.MethodPost, "/api/user", `{"name":"john doe","address":"456 Oak Ave"}`)
			Expect(rec.Code).To(Equal(http.StatusConflict))
			Expect(rec.Body.String()).To(Equal("Name already exists. Please use a different name."))

			users := listUsers(router)
			Expect(users).To(HaveLen(1))
			Expect(users[0].Address).To(Equal("123 Main St"))
		})

		DescribeTable("rejects invalid bodies with 400",
			func(body string) {
				rec := do(router, http.MethodPost, "/api/user", body)
				Expect(rec.Code).To(Equal(http.StatusBadRequest))
				Expect(rec.Body.String()).To(Equal("Invalid user data."))
				Expect(listUsers(router)).To(BeEmpty())
			},
			Entry("absent body", ""),
			Entry("malformed json", `{"name":`),
			Entry("missing address", `{"name":"John Doe"}`),
			Entry("missing name", `{"address":"123 Main St"}`),
			Entry("empty name", `{"name":"","address":"123 Main St"}`),
		)
	})

	Context("PUT /api/user/:name", func() {
		It("returns 404 when nothing was ever stored", func() {
			rec := do(router, http.MethodPut, "/api/user/JohnDoe", `{"name":"JohnDoe","address":"New Address"}`)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(Equal("No user found."))
		})

		When("the store has a user", func() {
			BeforeEach(func() {
				rec := do(router, http.MethodPost, "/api/user", `{"name":"JohnDoe","address":"Old Address"}`)
				Expect(rec.Code).To(Equal(http.StatusOK))
			})

			It("updates the address", func() {
				rec := do(router, http.MethodPut, "/api/user/JohnDoe", `{"name":"JohnDoe","address":"New Address"}`)
				Expect(rec.Code).To(Equal(http.StatusOK))
				Expect(rec.Body.String()).To(Equal("User updated successfully."))

				users := listUsers(router)
				Expect(users).To(Equal([]types.User{{Name: "JohnDoe", Address: "New Address"}}))
			})

			It("returns 404 for an unknown name", func() {
				rec := do(router, http.MethodPut, "/api/user/Nobody", `{"name":"Nobody","address":"x"}`)
				Expect(rec.Code).To(Equal(http.StatusNotFound))
				Expect(rec.Body.String()).To(Equal("User not found."))
			})

			It("returns 409 when renaming onto another user", func() {
				Expect(do(router, http.MethodPost, "/api/user", `{"name":"Jane","address":"9 Elm Rd"}`).Code).
					To(Equal(http.StatusOK))

				rec := do(router, http.MethodPut, "/api/user/JohnDoe", `{"name":"JANE","address":"x"}`)
				Expect(rec.Code).To(Equal(http.StatusConflict))
			})

			It("returns 400 for an invalid body", func() {
				rec := do(router, http.MethodPut, "/api/user/JohnDoe", `{"name":"JohnDoe"}`)
				Expect(rec.Code).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Context("DELETE /api/user/:name", func() {
		It("returns 404 when nothing was ever stored", func() {
			rec := do(router, http.MethodDelete, "/api/user/JohnDoe", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(Equal("No user found."))
		})

		It("deletes the matching user only", func() {
			Expect(do(router, http.MethodPost, "/api/user", `{"name":"John Doe","address":"123 Main St"}`).Code).
				To(Equal(http.StatusOK))
			Expect(do(router, http.MethodPost, "/api/user", `{"name":"Jane","address":"9 Elm Rd"}`).Code).
				To(Equal(http.StatusOK))

			rec := do(router, http.MethodDelete, "/api/user/john%20doe", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("User deleted successfully."))
			Expect(listUsers(router)).To(Equal([]types.User{{Name: "Jane", Address: "9 Elm Rd"}}))

			rec = do(router, http.MethodDelete, "/api/user/john%20doe", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(Equal("User not found."))
		})
	})

	Context("when the cache fails", func() {
		var ctrl *gomock.Controller

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			mockCache := mocks.NewMockCache(ctrl)
			mockCache.EXPECT().Get(gomock.Any(), store.CollectionKey).
				Return(nil, errors.New("connection refused")).AnyTimes()
			router = newRouter(NewHandlers(cfg, store.New(mockCache)))
		})

		AfterEach(func() {
			ctrl.Finish()
		})

		DescribeTable("returns 500",
			func(method, path, body string) {
				rec := do(router, method, path, body)
				Expect(rec.Code).To(Equal(http.StatusInternalServerError))
				Expect(rec.Body.String()).To(ContainSubstring("failed to access user records"))
			},
			Entry("list", http.MethodGet, "/api/user", ""),
			Entry("add", http.MethodPost, "/api/user", `{"name":"a","address":"b"}`),
			Entry("update", http.MethodPut, "/api/user/a", `{"name":"a","address":"b"}`),
			Entry("delete", http.MethodDelete, "/api/user/a", ""),
		)
	})
})

var _ = Describe("statusFor", func() {
	DescribeTable("maps outcomes",
		func(o store.Outcome, code int) {
			Expect(statusFor(o)).To(Equal(code))
		},
		Entry("added", store.OutcomeAdded, http.StatusOK),
		Entry("updated", store.OutcomeUpdated, http.StatusOK),
		Entry("deleted", store.OutcomeDeleted, http.StatusOK),
		Entry("duplicate", store.OutcomeDuplicateName, http.StatusConflict),
		Entry("not found", store.OutcomeNotFound, http.StatusNotFound),
		Entry("no collection", store.OutcomeNoCollection, http.StatusNotFound),
		Entry("unknown", store.OutcomeUnknown, http.StatusBadRequest),
	)
})
