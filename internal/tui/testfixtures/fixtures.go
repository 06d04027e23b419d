package testfixtures

// CheckoutFlow is a linear three-step flow. The cart step only passes
// validation once cart.ok exists in the working directory.
const CheckoutFlow = `
title: Checkout
linear: true
steps:
  - id: cart
    title: Cart
    summary: Review items
    content: |
      # Your cart

      Two items are waiting.
    validate:
      command: test -f cart.ok
      timeout: 5
  - id: shipping
    title: Shipping
    optional: true
    editable: true
    content: Pick a carrier.
  - id: pay
    title: Pay
    icon: lock
    content: Enter your card.
    actions:
      - name: continue
        title: Pay now
      - name: coupon
`

// SurveyFlow is a non-linear flow with no hooks.
const SurveyFlow = `
title: Survey
linear: false
vertical: true
steps:
  - id: intro
    title: Intro
    content: Welcome to the survey.
  - id: questions
    title: Questions
    summary: Five of them
  - id: thanks
    title: Thanks
    hide_actions: true
`
