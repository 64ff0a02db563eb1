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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/redhat-data-and-ai/addressbook/pkg/config"
	"github.com/redhat-data-and-ai/addressbook/pkg/logger"
	"github.com/redhat-data-and-ai/addressbook/pkg/store"
	"github.com/redhat-data-and-ai/addressbook/pkg/types"
)

const invalidUserMessage = "Invalid user data."

type Handlers struct {
	config *config.AppConfig
	store  *store.Store
}

func NewHandlers(cfg *config.AppConfig, dataStore *store.Store) *Handlers {
	return &Handlers{
		config: cfg,
		store:  dataStore,
	}
}

// Status reports liveness
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.config.App.Name,
		"version": h.config.App.Version,
		"status":  "running",
	})
}

// AddUser handles POST /api/user
func (h *Handlers) AddUser(c *gin.Context) {
	var user types.User
	if err := c.ShouldBindJSON(&user); err != nil {
		logger.Logger(c.Request.Context()).WithError(err).Debug("rejecting invalid user body")
		c.String(http.StatusBadRequest, invalidUserMessage)
		return
	}

	result, err := h.store.User.Add(c.Request.Context(), user)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.String(statusFor(result.Outcome), result.Message)
}

// UpdateUser handles PUT /api/user/:name
func (h *Handlers) UpdateUser(c *gin.Context) {
	var user types.User
	if err := c.ShouldBindJSON(&user); err != nil {
		logger.Logger(c.Request.Context()).WithError(err).Debug("rejecting invalid user body")
		c.String(http.StatusBadRequest, invalidUserMessage)
		return
	}

	result, err := h.store.User.Update(c.Request.Context(), c.Param("name"), user)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.String(statusFor(result.Outcome), result.Message)
}

// DeleteUser handles DELETE /api/user/:name
func (h *Handlers) DeleteUser(c *gin.Context) {
	result, err := h.store.User.Delete(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.String(statusFor(result.Outcome), result.Message)
}

// GetAllUsers handles GET /api/user
func (h *Handlers) GetAllUsers(c *gin.Context) {
	users, err := h.store.User.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *Handlers) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to access user records"})
}

// statusFor maps a store outcome to the HTTP status code.
// Both absence variants map to 404.
func statusFor(o store.Outcome) int {
	switch o {
	case store.OutcomeAdded, store.OutcomeUpdated, store.OutcomeDeleted:
		return http.StatusOK
	case store.OutcomeDuplicateName:
		return http.StatusConflict
	case store.OutcomeNotFound, store.OutcomeNoCollection:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
