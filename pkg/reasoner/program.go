package reasoner

// program derives entailments from told facts. Node arguments are IRIs for
// named entities and canonical term keys for class expressions and literals.
const program = `
Decl thing(T).
Decl nothing(N).
Decl cnode(C).
Decl pnode(P).
Decl dpnode(P).
Decl inode(I).
Decl told_sub(C, D).
Decl told_disj(C, D).
Decl told_psub(P, Q).
Decl told_dpsub(P, Q).
Decl told_pdisj(P, Q).
Decl told_inv(P, Q).
Decl symmetric(P).
Decl transitive(P).
Decl asymmetric(P).
Decl irreflexive(P).
Decl dom(P, C).
Decl rng(P, C).
Decl ddom(P, C).
Decl ca(I, C).
Decl opa(I, P, J).
Decl nopa(I, P, J).
Decl dpa(I, P, V).
Decl ndpa(I, P, V).

Decl subc(C, D).
Decl unsat(C).
Decl disj(C, D).
Decl psubc(P, Q).
Decl peq(P, Q).
Decl dpsubc(P, Q).
Decl inv(P, Q).
Decl val(I, P, J).
Decl dval(I, P, V).
Decl type(I, C).
Decl clash(I).

subc(X, X) :- cnode(X).
subc(X, T) :- cnode(X), thing(T).
subc(X, Z) :- subc(X, Y), told_sub(Y, Z).
unsat(X) :- subc(X, N), nothing(N).
disj(X, Y) :- told_disj(A, B), subc(X, A), subc(Y, B).
unsat(X) :- disj(X, X).
subc(X, N) :- unsat(X), nothing(N).
subc(X, Y) :- unsat(X), cnode(Y).
disj(X, Y) :- unsat(X), cnode(Y).
disj(Y, X) :- unsat(X), cnode(Y).

psubc(P, P) :- pnode(P).
psubc(P, R) :- psubc(P, Q), told_psub(Q, R).
peq(P, Q) :- psubc(P, Q), psubc(Q, P).
dpsubc(P, P) :- dpnode(P).
dpsubc(P, R) :- dpsubc(P, Q), told_dpsub(Q, R).
inv(P, Q) :- told_inv(A, B), peq(P, A), peq(Q, B).

val(X, P, Y) :- opa(X, P, Y).
val(X, Q, Y) :- val(X, P, Y), psubc(P, Q).
val(Y, Q, X) :- val(X, P, Y), inv(P, Q).
val(Y, P, X) :- val(X, P, Y), symmetric(P).
val(X, P, Z) :- val(X, P, Y), val(Y, P, Z), transitive(P).
dval(X, P, V) :- dpa(X, P, V).
dval(X, Q, V) :- dval(X, P, V), dpsubc(P, Q).

type(I, T) :- inode(I), thing(T).
type(I, C) :- ca(I, C).
type(I, D) :- type(I, C), subc(C, D).
type(I, C) :- val(I, P, J), dom(P, C).
type(J, C) :- val(I, P, J), rng(P, C).
type(I, C) :- dval(I, P, V), ddom(P, C).

clash(I) :- type(I, C), unsat(C).
clash(I) :- type(I, C), type(I, D), disj(C, D).
clash(I) :- nopa(I, P, J), val(I, P, J).
clash(I) :- ndpa(I, P, V), dval(I, P, V).
clash(I) :- val(I, P, I), irreflexive(P).
clash(I) :- val(I, P, J), val(J, P, I), asymmetric(P).
clash(I) :- val(I, P, J), val(I, Q, J), told_pdisj(P, Q).
`
