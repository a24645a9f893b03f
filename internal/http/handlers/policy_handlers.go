package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/domain"
)

type PolicyHandlers struct{ svc domain.PolicyService }

func NewPolicyHandlers(svc domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{svc: svc}
}

type policyReq struct {
	Sub string `json:"sub" binding:"required"`
	Obj string `json:"obj" binding:"required"`
	Act string `json:"act" binding:"required"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	rules := h.svc.GetPolicies()
	out := make([]policyReq, 0, len(rules))
	for _, r := range rules {
		if len(r) < 3 {
			continue
		}
		out = append(out, policyReq{Sub: r[0], Obj: r[1], Act: r[2]})
	}
	respond(c, http.StatusOK, "", out, nil)
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if !bindJSON(c, &r) {
		return
	}
	if err := h.svc.AddPolicy(r.Sub, r.Obj, r.Act); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if !bindJSON(c, &r) {
		return
	}
	if err := h.svc.RemovePolicy(r.Sub, r.Obj, r.Act); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
