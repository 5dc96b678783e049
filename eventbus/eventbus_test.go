package eventbus

import (
    "testing"
    "time"
)

func TestPublishReachesSubscriber(t *testing.T) {
    subscriber := NewSubscriber()
    defer subscriber.UnsubscribeAll()

    received := make(chan interface{}, 1)
    err := subscriber.Subscribe("batch.end", func(data interface{}) {
        received <- data
    }, false)
    if err != nil {
        t.Fatalf("subscribe: %s", err.Error())
    }

    if err := Publish(NewBaseEvent("batch.end", "payload")); err != nil {
        t.Fatalf("publish: %s", err.Error())
    }

    select {
    case data := <-received:
        if data != "payload" {
            t.Errorf("payload: got %v", data)
        }
    case <-time.After(5 * time.Second):
        t.Fatal("event never delivered")
    }
}

func TestPublishSynchronousHandler(t *testing.T) {
    subscriber := NewSubscriber()
    defer subscriber.UnsubscribeAll()

    received := make(chan interface{}, 1)
    err := subscriber.Subscribe("batch.fail", func(data interface{}) {
        received <- data
    }, true)
    if err != nil {
        t.Fatalf("subscribe: %s", err.Error())
    }

    if err := Publish(NewBaseEvent("batch.fail", 7)); err != nil {
        t.Fatalf("publish: %s", err.Error())
    }

    select {
    case data := <-received:
        if data != 7 {
            t.Errorf("payload: got %v", data)
        }
    case <-time.After(5 * time.Second):
        t.Fatal("event never delivered")
    }
}

func TestSubscribeRejections(t *testing.T) {
    subscriber := NewSubscriber()
    defer subscriber.UnsubscribeAll()

    if err := subscriber.Subscribe("", func(interface{}) {}, false); err == nil {
        t.Error("empty event id accepted")
    }
    if err := subscriber.Subscribe("batch.begin", "not a handler", false); err == nil {
        t.Error("non-handler accepted")
    }

    if err := subscriber.Subscribe("batch.begin", func(interface{}) {}, false); err != nil {
        t.Fatalf("subscribe: %s", err.Error())
    }
    if err := subscriber.Subscribe("batch.begin", func(interface{}) {}, false); err == nil {
        t.Error("duplicate subscription accepted")
    }
}

func TestPublishValidation(t *testing.T) {
    if err := Publish(nil); err == nil {
        t.Error("nil event accepted")
    }
    if err := Publish(NewBaseEvent("", "x")); err == nil {
        t.Error("empty event id accepted")
    }
}

func TestNewMailReceiver(t *testing.T) {
    if _, err := NewMailReceiver("", "subject", "body"); err == nil {
        t.Error("empty address accepted")
    }
    if _, err := NewMailReceiver("ops@example.com", "subject", nil); err == nil {
        t.Error("nil content accepted")
    }
    if _, err := NewMailReceiver("ops@example.com", "subject", 42); err == nil {
        t.Error("non-string content accepted")
    }

    formatter := func(data interface{}) string { return "formatted" }
    if _, err := NewMailReceiver("ops@example.com", "subject", formatter); err != nil {
        t.Errorf("formatter content rejected: %s", err.Error())
    }
    receiver, err := NewMailReceiver("ops@example.com", "subject", "body")
    if err != nil {
        t.Fatalf("string content rejected: %s", err.Error())
    }

    /*without a configured sender delivery must fail, not panic*/
    if HasMailSender() {
        t.Fatal("unexpected global mail sender")
    }
    if err := receiver.TryReceive(nil); err == nil {
        t.Error("mail sent without a sender")
    }
}

func TestSubscribeMailReceiverNeedsSender(t *testing.T) {
    subscriber := NewSubscriber()
    defer subscriber.UnsubscribeAll()

    receiver, err := NewMailReceiver("ops@example.com", "subject", "body")
    if err != nil {
        t.Fatalf("receiver: %s", err.Error())
    }
    if err := subscriber.Subscribe("batch.fail", receiver, false); err == nil {
        t.Error("mail subscription accepted without a sender")
    }
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
    subscriber := NewSubscriber()

    received := make(chan interface{}, 1)
    err := subscriber.Subscribe("batch.begin", func(data interface{}) {
        received <- data
    }, false)
    if err != nil {
        t.Fatalf("subscribe: %s", err.Error())
    }
    if err := subscriber.Unsubscribe("batch.begin"); err != nil {
        t.Fatalf("unsubscribe: %s", err.Error())
    }
    if len(subscriber.SubscribedEvents()) != 0 {
        t.Errorf("subscriptions remain: %v", subscriber.SubscribedEvents())
    }

    if err := Publish(NewBaseEvent("batch.begin", "late")); err != nil {
        t.Fatalf("publish: %s", err.Error())
    }
    select {
    case <-received:
        t.Error("unsubscribed handler still invoked")
    case <-time.After(100 * time.Millisecond):
    }
}
