package http

import (
	"encoding/json"

	"github.com/chatrelay/chatrelay-server/internal/core"
	"github.com/chatrelay/chatrelay-server/internal/proto"
)

const (
	eventMessage  = "message"
	eventHistory  = "history"
	eventPresence = "presence"
)

// inboundToCommand validates an inbound envelope and maps it to a hub
// command. Validation failures return a proto error for the origin
// connection only; malformed JSON is a transport error.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeRegister:
		var reg proto.RegisterData
		if err := json.Unmarshal(inbound.Data, &reg); err != nil {
			return nil, nil, err
		}
		if reg.Username == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "username is required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandRegister,
			Username: reg.Username,
		}, nil, nil
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Channel == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "channel is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandJoin,
			Channel: join.Channel,
		}, nil, nil
	case proto.InboundTypeSend:
		var send proto.SendData
		if err := json.Unmarshal(inbound.Data, &send); err != nil {
			return nil, nil, err
		}
		if send.Channel == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "channel is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandSend,
			Channel: send.Channel,
			Text:    send.Message.Text,
			TS:      send.Message.TS,
		}, nil, nil
	case proto.InboundTypeSendDirect:
		var direct proto.SendDirectData
		if err := json.Unmarshal(inbound.Data, &direct); err != nil {
			return nil, nil, err
		}
		if direct.To == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "recipient is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandSendDirect,
			To:   direct.To,
			Text: direct.Message.Text,
			TS:   direct.Message.TS,
		}, nil, nil
	case proto.InboundTypeCalc:
		var calc proto.CalcData
		if err := json.Unmarshal(inbound.Data, &calc); err != nil {
			return nil, nil, err
		}
		if calc.Channel == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "channel is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandCalc,
			Channel: calc.Channel,
			Expr:    calc.Expr,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func messageToProto(msg core.Message) proto.EventMessage {
	return proto.EventMessage{
		ID:      msg.ID,
		Channel: msg.Channel,
		From:    msg.From,
		Text:    msg.Text,
		TS:      msg.TS,
		Kind:    string(msg.Kind),
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: eventMessage,
			Data:  messageToProto(event.Message),
		}
	case core.EventHistory:
		messages := make([]proto.EventMessage, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messageToProto(msg))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: eventHistory,
			Data: proto.EventHistory{
				Channel:  event.Channel,
				Messages: messages,
			},
		}
	case core.EventPresence:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: eventPresence,
			Data:  proto.EventPresence{Users: event.Users},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
