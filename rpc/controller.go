package rpc

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/relaymesh/mailbox/common"
	"github.com/relaymesh/mailbox/mailbox"
	"github.com/relaymesh/mailbox/types"
)

type RpcController struct {
	Mailbox *mailbox.Mailbox
}

type DispatchRequest struct {
	Sender       string         `json:"sender"`
	DestDomain   uint32         `json:"dest_domain"`
	Recipient    string         `json:"recipient"`
	Body         string         `json:"body"`
	Hook         string         `json:"hook,omitempty"`
	HookMetadata string         `json:"hook_metadata,omitempty"`
	Funds        []mailbox.Coin `json:"funds,omitempty"`
}

type ProcessRequest struct {
	Relayer  string `json:"relayer"`
	Metadata string `json:"metadata"`
	Message  string `json:"message"`
}

type OwnerRequest struct {
	Caller  string `json:"caller"`
	Address string `json:"address,omitempty"`
}

func (r *RpcController) Dispatch(c *gin.Context) {
	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Response(c, http.StatusBadRequest, err, nil)
		return
	}
	recipient, err := common.FromHex(req.Recipient)
	if err != nil {
		Response(c, http.StatusBadRequest, err, nil)
		return
	}
	body, err := common.FromHex(req.Body)
	if err != nil {
		Response(c, http.StatusBadRequest, err, nil)
		return
	}
	metadata, err := common.FromHex(req.HookMetadata)
	if err != nil {
		Response(c, http.StatusBadRequest, err, nil)
		return
	}

	id, calls, err := r.Mailbox.Dispatch(req.Sender, mailbox.DispatchRequest{
		DestDomain:   req.DestDomain,
		Recipient:    recipient,
		Body:         body,
		Hook:         req.Hook,
		HookMetadata: metadata,
		Funds:        req.Funds,
	})
	if err != nil {
		Response(c, statusOf(err), err, nil)
		return
	}
	issueCalls(calls)
	Response(c, http.StatusOK, nil, gin.H{"message_id": id.Hex()})
}

func (r *RpcController) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Response(c, http.StatusBadRequest, err, nil)
		return
	}
	metadata, err := common.FromHex(req.Metadata)
	if err != nil {
		Response(c, http.StatusBadRequest, err, nil)
		return
	}
	raw, err := common.FromHex(req.Message)
	if err != nil {
		Response(c, http.StatusBadRequest, err, nil)
		return
	}

	calls, err := r.Mailbox.Process(req.Relayer, metadata, raw)
	if err != nil {
		Response(c, statusOf(err), err, nil)
		return
	}
	issueCalls(calls)
	Response(c, http.StatusOK, nil, nil)
}

func (r *RpcController) SetDefaultIsm(c *gin.Context) {
	r.ownerOp(c, func(req OwnerRequest) error {
		return r.Mailbox.SetDefaultIsm(req.Caller, req.Address)
	})
}

func (r *RpcController) SetDefaultHook(c *gin.Context) {
	r.ownerOp(c, func(req OwnerRequest) error {
		return r.Mailbox.SetDefaultHook(req.Caller, req.Address)
	})
}

func (r *RpcController) InitOwnershipTransfer(c *gin.Context) {
	r.ownerOp(c, func(req OwnerRequest) error {
		return r.Mailbox.InitOwnershipTransfer(req.Caller, req.Address)
	})
}

func (r *RpcController) RevokeOwnershipTransfer(c *gin.Context) {
	r.ownerOp(c, func(req OwnerRequest) error {
		return r.Mailbox.RevokeOwnershipTransfer(req.Caller)
	})
}

func (r *RpcController) ClaimOwnership(c *gin.Context) {
	r.ownerOp(c, func(req OwnerRequest) error {
		return r.Mailbox.ClaimOwnership(req.Caller)
	})
}

func (r *RpcController) QueryNonce(c *gin.Context) {
	Response(c, http.StatusOK, nil, gin.H{"nonce": r.Mailbox.Nonce()})
}

func (r *RpcController) QueryLatestDispatched(c *gin.Context) {
	Response(c, http.StatusOK, nil, gin.H{"message_id": r.Mailbox.LatestDispatchedId().Hex()})
}

func (r *RpcController) QueryDelivered(c *gin.Context) {
	id, err := types.HexStringToHash(c.Query("id"))
	if err != nil {
		Response(c, http.StatusBadRequest, err, nil)
		return
	}
	delivery := r.Mailbox.Delivered(id)
	if delivery == nil {
		Response(c, http.StatusOK, nil, gin.H{"delivered": false})
		return
	}
	Response(c, http.StatusOK, nil, gin.H{"delivered": true, "relayer": delivery.Relayer})
}

func (r *RpcController) QueryOwner(c *gin.Context) {
	owner, err := r.Mailbox.Owner()
	if err != nil {
		Response(c, http.StatusInternalServerError, err, nil)
		return
	}
	Response(c, http.StatusOK, nil, gin.H{"owner": owner})
}

func (r *RpcController) QueryPendingOwner(c *gin.Context) {
	pending, err := r.Mailbox.PendingOwner()
	if err != nil {
		Response(c, http.StatusInternalServerError, err, nil)
		return
	}
	Response(c, http.StatusOK, nil, gin.H{"pending_owner": pending})
}

func (r *RpcController) QueryConfig(c *gin.Context) {
	config := r.Mailbox.Config()
	if config == nil {
		Response(c, http.StatusInternalServerError, errors.New("mailbox not initialized"), nil)
		return
	}
	Response(c, http.StatusOK, nil, gin.H{
		"local_domain": config.LocalDomain,
		"hrp":          config.Hrp,
		"default_ism":  config.DefaultIsm,
		"default_hook": config.DefaultHook,
	})
}

func (r *RpcController) ownerOp(c *gin.Context, op func(OwnerRequest) error) {
	var req OwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Response(c, http.StatusBadRequest, err, nil)
		return
	}
	if err := op(req); err != nil {
		Response(c, statusOf(err), err, nil)
		return
	}
	Response(c, http.StatusOK, nil, nil)
}

// issueCalls runs the deferred collaborator calls in order, after the
// operation's own effects committed. A failing call does not undo them.
func issueCalls(calls []mailbox.OutboundCall) {
	for _, call := range calls {
		if err := call.Call(); err != nil {
			logrus.WithError(err).WithField("target", call.Target).Warn("outbound call failed")
		}
	}
}

// statusOf maps the typed mailbox errors onto http status codes so that
// relayers can distinguish retry classes mechanically.
func statusOf(err error) int {
	var addrLen *types.InvalidAddressLengthError
	var version *types.InvalidMessageVersionError
	var domain *types.InvalidDestinationDomainError
	var malformed *types.MalformedMessageError
	var recipient *types.InvalidRecipientEncodingError
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, types.ErrAlreadyDelivered),
		errors.Is(err, types.ErrTransferAlreadyPending),
		errors.Is(err, types.ErrNoPendingTransfer):
		return http.StatusConflict
	case errors.Is(err, types.ErrVerificationFailed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &addrLen),
		errors.As(err, &version),
		errors.As(err, &domain),
		errors.As(err, &malformed),
		errors.As(err, &recipient):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

func Response(c *gin.Context, status int, err error, data interface{}) {
	var msg string
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, gin.H{
		"err":  msg,
		"data": data,
	})
}
